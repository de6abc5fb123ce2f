package speech

import (
	"context"
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

type EngineType string

const (
	EngineTypeMock   EngineType = "mock"
	EngineTypeESpeak EngineType = "espeak"
	EngineTypeSAPI   EngineType = "sapi" // Windows only
	EngineTypeSay    EngineType = "say"  // macOS only
	EngineTypeGoogle EngineType = "google"
	EngineTypeAuto   EngineType = "auto" // Automatically choose the platform engine
)

func (e EngineType) String() string {
	return string(e)
}

// environment holds the variables that influence engine availability
type environment struct {
	GoogleCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	PowerShell        string `env:"AWESOMETTS_POWERSHELL" envDefault:"powershell"`
}

func readEnvironment() environment {
	e, err := env.ParseAs[environment]()
	if err != nil {
		logrus.WithError(err).Warn("failed to read speech environment")
		return environment{PowerShell: "powershell"}
	}
	return e
}

// NewEngine creates a speech engine based on the provided config
func NewEngine(ctx context.Context, config Config) (Engine, error) {
	engineType := EngineType(config.Type)
	if engineType == "" || engineType == EngineTypeAuto {
		engineType = platformEngine(runtime.GOOS)
	}

	logrus.WithField("engine", engineType).Debug("creating speech engine")

	switch engineType {
	case EngineTypeMock:
		return NewMockEngine("mock-voice"), nil

	case EngineTypeESpeak:
		return newESpeakEngine()

	case EngineTypeSAPI:
		if runtime.GOOS != "windows" {
			return nil, fmt.Errorf("%w: SAPI engine only supports Windows", ErrUnavailable)
		}
		return newSAPIEngine(readEnvironment().PowerShell)

	case EngineTypeSay:
		if runtime.GOOS != "darwin" {
			return nil, fmt.Errorf("%w: say engine only supports macOS", ErrUnavailable)
		}
		return newSayEngine()

	case EngineTypeGoogle:
		return newGoogleEngine(ctx, config)

	default:
		return nil, fmt.Errorf("unsupported TTS engine type: %s", config.Type)
	}
}

// platformEngine returns the native engine for goos
func platformEngine(goos string) EngineType {
	switch goos {
	case "windows":
		return EngineTypeSAPI
	case "darwin":
		return EngineTypeSay
	default:
		return EngineTypeESpeak // Cross-platform fallback
	}
}

// AvailableEngines returns engines usable on the current platform, the
// platform default first.
func AvailableEngines() []EngineType {
	engines := []EngineType{platformEngine(runtime.GOOS)}

	if runtime.GOOS != "linux" {
		if _, err := findESpeakExecutable(); err == nil {
			engines = append(engines, EngineTypeESpeak)
		}
	}

	if readEnvironment().GoogleCredentials != "" {
		engines = append(engines, EngineTypeGoogle)
	}

	return append(engines, EngineTypeMock)
}
