package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string // DEV (local; default), TEST, QA, PROD
		Debug    bool
		Verbose  bool // echo logs to stderr in the console
		TestMode bool
		AppName  string
		Build    string

		// client
		APIBaseURL     string
		RequestTimeout time.Duration
		StoragePath    string // client-local persistent session storage

		RollbarToken string

		DevAPI DevAPIConfig
	}

	// DevAPIConfig configures the local stand-in backend.
	DevAPIConfig struct {
		Address         string
		ProfileEndpoint bool // serve GET /users/me
	}
)

// NewConfig loads the configuration of the current ENV from the environment and, if any, from
// `config/.env.<env>` in the working directory.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("verbose", false)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Registrar")
	conf.SetDefault("build", "dev")
	conf.SetDefault("apiBaseURL", "http://localhost:8080/api")
	conf.SetDefault("requestTimeout", 15*time.Second)
	conf.SetDefault("storagePath", defaultStoragePath())
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("devapi.address", ":8080")
	conf.SetDefault("devapi.profileEndpoint", true)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:            env,
		Debug:          conf.GetBool("debug"),
		Verbose:        conf.GetBool("verbose"),
		TestMode:       conf.GetBool("testMode"),
		AppName:        conf.GetString("appName"),
		Build:          conf.GetString("build"),
		APIBaseURL:     strings.TrimRight(conf.GetString("apiBaseURL"), "/"),
		RequestTimeout: conf.GetDuration("requestTimeout"),
		StoragePath:    conf.GetString("storagePath"),
		RollbarToken:   conf.GetString("rollbarToken"),
		DevAPI: DevAPIConfig{
			Address:         conf.GetString("devapi.address"),
			ProfileEndpoint: conf.GetBool("devapi.profileEndpoint"),
		},
	}
}

func defaultStoragePath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, ".registrar", "session.db")
}
