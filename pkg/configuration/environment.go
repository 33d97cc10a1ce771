package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/iota-staffing/pkg/logging"
)

const (
	SourceDB    = "db"
	SourceFiles = "files"
)

var defaultEnvFiles = []string{".env", ".env.local"}

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load(defaultEnvFiles)
	if err != nil {
		panic(err)
	}
	return c
})

// LoadEnv loads the env files found in the working directory, or, when none is there, in the
// nearest parent directory holding a go.mod. It returns how many files were loaded.
func LoadEnv(envFiles []string) (int, error) {
	existing := existingFiles("", envFiles)
	if len(existing) == 0 {
		if root := moduleRoot(); root != "" {
			existing = existingFiles(root, envFiles)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func existingFiles(dir string, envFiles []string) []string {
	out := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		path := file
		if dir != "" && !filepath.IsAbs(file) {
			path = filepath.Join(dir, file)
		}
		if fs.FileExists(path) {
			out = append(out, path)
		}
	}
	return out
}

func moduleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if fs.FileExists(filepath.Join(dir, "go.mod")) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"iota_staffing"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type StaffingOptions struct {
	// PrimaryUnit is the top-level unit listed first in comparison exports.
	PrimaryUnit     string `env:"STAFFING_PRIMARY_UNIT"`
	LayoutPath      string `env:"STAFFING_EXPORT_LAYOUT"`
	Source          string `env:"STAFFING_SOURCE" envDefault:"files"`
	DataDir         string `env:"STAFFING_DATA_DIR" envDefault:"data"`
	Currency        string `env:"STAFFING_CURRENCY" envDefault:"BRL"`
	MetricsTextfile string `env:"STAFFING_METRICS_TEXTFILE"`
}

func (s *StaffingOptions) Validate() error {
	source := strings.ToLower(strings.TrimSpace(s.Source))
	switch source {
	case SourceDB, SourceFiles:
	default:
		return fmt.Errorf("invalid STAFFING_SOURCE=%q (expected db|files)", s.Source)
	}
	s.Source = source
	if source == SourceFiles && strings.TrimSpace(s.DataDir) == "" {
		return fmt.Errorf("STAFFING_DATA_DIR is required when STAFFING_SOURCE=files")
	}
	s.PrimaryUnit = strings.TrimSpace(s.PrimaryUnit)
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	return nil
}

type Configuration struct {
	Database DatabaseOptions
	Staffing StaffingOptions
	LogLevel string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath  string `env:"LOG_PATH"`

	logFile *os.File
	logger  *logrus.Logger
}

// Load reads env files and the process environment. Callers own Unload.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.Staffing.Validate(); err != nil {
		return fmt.Errorf("staffing configuration error: %w", err)
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
		c.logFile = nil
	}
}
