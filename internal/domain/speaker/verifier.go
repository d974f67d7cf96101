package speaker

import (
	"context"
	"errors"
	"os"

	"mars-assistant-go/internal/platform/logging"
)

// VerifierConfig controls the acceptance decision.
type VerifierConfig struct {
	// Threshold is the minimum cosine similarity for acceptance.
	Threshold float64

	// FailOpen decides what happens when verification itself breaks
	// (encoder down, profile unreadable): accept the command anyway, or
	// reject until the operator fixes the backend.
	FailOpen bool
}

// Verifier decides whether an utterance belongs to the enrolled user.
type Verifier struct {
	config  VerifierConfig
	encoder Encoder
	profile *Profile
	logger  *logging.Logger
}

// NewVerifier wires an encoder backend to the enrolled profile.
func NewVerifier(config VerifierConfig, encoder Encoder, profile *Profile, logger *logging.Logger) *Verifier {
	return &Verifier{config: config, encoder: encoder, profile: profile, logger: logger}
}

// Verify reports whether the utterance matches the enrolled voice.
// Transient failures (encoder down, profile file absent) never surface
// as errors: the configured fail-open policy resolves them, so a broken
// backend degrades to either an open door or a locked one, never a
// crash. A profile that exists but cannot be decoded is a deployment
// defect and is returned as an error so the caller aborts.
func (v *Verifier) Verify(ctx context.Context, samples []int16) (bool, error) {
	reference, err := v.profile.Embedding()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
		return v.resolveFailure(ctx, "loading voice profile", err)
	}

	embedding, err := v.encoder.Embed(ctx, samples)
	if err != nil {
		return v.resolveFailure(ctx, "computing utterance embedding", err)
	}

	similarity := CosineSimilarity(embedding, reference)
	accepted := similarity >= v.config.Threshold
	v.logger.InfoTag("VERIFY", "similarity %.3f against threshold %.3f: accepted=%v",
		similarity, v.config.Threshold, accepted)

	return accepted, nil
}

func (v *Verifier) resolveFailure(ctx context.Context, what string, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if v.config.FailOpen {
		v.logger.WarnTag("VERIFY", "%s failed, accepting command (fail-open): %v", what, err)
		return true, nil
	}
	v.logger.WarnTag("VERIFY", "%s failed, rejecting command (fail-closed): %v", what, err)
	return false, nil
}
