package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DataVersion tags every persisted bundle; a bundle carrying a different tag is
// only trusted after migration (load) or explicit confirmation (restore).
const DataVersion = "2.0"

var Conf *Config

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		Build    string

		AppName          string
		SecretKey        string
		DefaultFromEmail string

		// DataFile is the path of the serialized attendance bundle.
		DataFile string
		// DemoData seeds the demonstration courses on a first run with no bundle on disk.
		DemoData bool

		SendgridApiKey string
		RollbarToken   string

		Server ServerConfig
	}

	ServerConfig struct {
		Host               string
		Port               string
		JWTExpirationDelta time.Duration
	}
)

func (c Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c Config) FromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Attendance System")
	v.SetDefault("secretKey", "q2w#e4r%t6y&u8i(o0p_a1s2d3f4g5h6j7k8l9")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("dataFile", filepath.Join("data", "attendance.json"))
	v.SetDefault("demoData", false)
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("build", "")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.jwtExpirationDelta", time.Hour)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	Conf = new(Config)
	if err := v.Unmarshal(Conf); err != nil {
		log.Fatalf("config.viper.Unmarshal: %v", err)
	}
}
