package retentionsvc

import (
	"fmt"
	"time"

	"github.com/mkrupp/homecase-camera/internal/domain"
)

// RetentionConfig contains configuration parameters for the retention sweeper.
// Duration values accept either a bare integer (seconds) or a Go duration
// string such as "90s" or "15m".
type RetentionConfig struct {
	// Retention is the minimum age at which a stored image becomes
	// eligible for deletion.
	Retention time.Duration `env:"RETENTION_SECONDS" default:"3600"`

	// SweepInterval is the period between two sweep passes.
	SweepInterval time.Duration `env:"CLEANUP_INTERVAL_SECONDS" default:"600"`
}

// Validate checks that both durations are positive.
func (cfg RetentionConfig) Validate() error {
	if cfg.Retention <= 0 {
		return fmt.Errorf("%w: retention must be positive, got %s", domain.ErrInvalidParameters, cfg.Retention)
	}

	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("%w: sweep interval must be positive, got %s", domain.ErrInvalidParameters, cfg.SweepInterval)
	}

	return nil
}
