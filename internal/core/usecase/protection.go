package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/droitbot/droitbot-server/internal/core/domain"
	"github.com/droitbot/droitbot-server/internal/core/ports"
)

// MessageAnalysisUseCase screens a single message for scam patterns.
type MessageAnalysisUseCase struct {
	generator ports.StructuredGenerator
}

func NewMessageAnalysisUseCase(generator ports.StructuredGenerator) *MessageAnalysisUseCase {
	return &MessageAnalysisUseCase{generator: generator}
}

func (uc *MessageAnalysisUseCase) Analyze(ctx context.Context, req domain.MessageAnalysisRequest) (*domain.MessageAnalysis, error) {
	if req.Message == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze message", errors.New("empty message"))
	}
	if !domain.ValidMessageSource(req.Source) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze message", fmt.Errorf("unknown source %q", req.Source))
	}

	var out domain.MessageAnalysis
	if err := uc.generator.GenerateStructured(ctx, buildMessageAnalysisPrompt(req), &out); err != nil {
		return nil, fmt.Errorf("analyze message: %w", err)
	}
	return &out, nil
}

// FraudCheckUseCase assesses an uploaded image or PDF for forgery signals.
type FraudCheckUseCase struct {
	generator ports.StructuredGenerator
}

func NewFraudCheckUseCase(generator ports.StructuredGenerator) *FraudCheckUseCase {
	return &FraudCheckUseCase{generator: generator}
}

func (uc *FraudCheckUseCase) Check(ctx context.Context, req domain.FraudCheckRequest) (*domain.FraudCheckResult, error) {
	if req.FileDataURI == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "fraud check", errors.New("missing file data URI"))
	}

	var out domain.FraudCheckResult
	if err := uc.generator.GenerateStructuredWithMedia(ctx, buildFraudCheckPrompt(req.Description), req.FileDataURI, &out); err != nil {
		return nil, fmt.Errorf("fraud check: %w", err)
	}
	return &out, nil
}

// AudioCheckUseCase screens an audio recording for suspicious or harmful
// content.
type AudioCheckUseCase struct {
	generator ports.StructuredGenerator
}

func NewAudioCheckUseCase(generator ports.StructuredGenerator) *AudioCheckUseCase {
	return &AudioCheckUseCase{generator: generator}
}

func (uc *AudioCheckUseCase) Check(ctx context.Context, req domain.AudioCheckRequest) (*domain.AudioCheckResult, error) {
	if req.AudioDataURI == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "audio check", errors.New("missing audio data URI"))
	}

	var out domain.AudioCheckResult
	if err := uc.generator.GenerateStructuredWithMedia(ctx, buildAudioCheckPrompt(), req.AudioDataURI, &out); err != nil {
		return nil, fmt.Errorf("audio check: %w", err)
	}
	return &out, nil
}
