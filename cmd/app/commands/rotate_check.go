package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
	vaultUseCase "github.com/allisson/vault/internal/vault/usecase"
)

// RotateCheckStep is the state observed after one rotation.
type RotateCheckStep struct {
	Rotation        int    `json:"rotation"`
	CurrentVersion  uint   `json:"current_version"`
	PreviousVersion *uint  `json:"previous_version"`
	ProbeReadable   bool   `json:"probe_readable"`
	ReadError       string `json:"read_error,omitempty"`
}

var probePayload = []byte(`{"rotate_check":true}`)

// RunRotateCheck seals a probe record, rotates the keys the given number of
// times and reports after each rotation whether the probe still opens.
//
// The probe must survive exactly one rotation and report an expired key
// version from the second on; anything else is returned as an error.
func RunRotateCheck(
	ctx context.Context,
	vault vaultUseCase.VaultUseCase,
	logger *slog.Logger,
	w io.Writer,
	rotations int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if rotations < 1 {
		return fmt.Errorf("rotations must be at least 1, got %d", rotations)
	}

	probe, err := vault.Write(ctx, probePayload)
	if err != nil {
		return fmt.Errorf("failed to write probe record: %w", err)
	}
	logger.Info("probe record written", slog.Uint64("key_version", uint64(probe.KeyVersion)))

	steps := make([]RotateCheckStep, 0, rotations)
	for i := 1; i <= rotations; i++ {
		info, err := vault.ForceRotate(ctx)
		if err != nil {
			return fmt.Errorf("rotation %d failed: %w", i, err)
		}

		step := RotateCheckStep{
			Rotation:        i,
			CurrentVersion:  info.CurrentVersion,
			PreviousVersion: info.PreviousVersion,
		}

		decrypted, err := vault.Read(ctx, probe)
		var expired *vaultDomain.KeyVersionExpiredError
		switch {
		case err == nil:
			step.ProbeReadable = true
			cryptoDomain.Zero(decrypted.Plaintext)
		case errors.As(err, &expired):
			step.ReadError = expired.Error()
		default:
			return fmt.Errorf("probe read after rotation %d failed: %w", i, err)
		}

		steps = append(steps, step)
	}

	if format == "json" {
		if err := writeJSON(w, steps); err != nil {
			return err
		}
	} else {
		writeRotateCheckText(w, probe.KeyVersion, steps)
	}

	return verifyRotateCheck(steps)
}

func writeRotateCheckText(w io.Writer, probeVersion uint, steps []RotateCheckStep) {
	_, _ = fmt.Fprintf(w, "probe sealed with key version %d\n", probeVersion)
	for _, step := range steps {
		previous := "none"
		if step.PreviousVersion != nil {
			previous = fmt.Sprintf("%d", *step.PreviousVersion)
		}
		status := "readable"
		if !step.ProbeReadable {
			status = step.ReadError
		}
		_, _ = fmt.Fprintf(w, "rotation %d: current=%d previous=%s probe: %s\n",
			step.Rotation, step.CurrentVersion, previous, status)
	}
}

// verifyRotateCheck requires the probe to be readable after the first
// rotation only.
func verifyRotateCheck(steps []RotateCheckStep) error {
	for _, step := range steps {
		wantReadable := step.Rotation == 1
		if step.ProbeReadable != wantReadable {
			return fmt.Errorf(
				"rotate check failed: after rotation %d probe readable=%t, want %t",
				step.Rotation, step.ProbeReadable, wantReadable,
			)
		}
	}
	return nil
}
