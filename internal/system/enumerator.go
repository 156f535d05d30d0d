package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/sentineledge/hostreport/internal/executor"
	"github.com/sentineledge/hostreport/pkg/models"
)

// DeviceEnumerator lists graphics adapters.
type DeviceEnumerator interface {
	GPUs(ctx context.Context) ([]string, error)
}

// DisplayEnumerator lists attached monitors.
type DisplayEnumerator interface {
	Monitors(ctx context.Context) ([]models.Monitor, error)
}

// ErrUnsupportedPlatform is returned by enumerators on platforms with no
// known enumeration utility.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Enumerators picks the device and display enumerators for goos.
func Enumerators(goos string, run executor.Runner) (DeviceEnumerator, DisplayEnumerator) {
	switch goos {
	case "windows":
		return &WMIC{run: run}, &WMIC{run: run}
	case "linux":
		return &LSPCI{run: run}, &XRandR{run: run}
	case "darwin":
		return &SystemProfiler{run: run}, &SystemProfiler{run: run}
	default:
		u := unsupported{goos: goos}
		return u, u
	}
}

type unsupported struct {
	goos string
}

func (u unsupported) GPUs(context.Context) ([]string, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, u.goos)
}

func (u unsupported) Monitors(context.Context) ([]models.Monitor, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, u.goos)
}
