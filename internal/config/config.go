package config // package config loads application configuration from environment variables

import (
    "os"   // os provides access to environment variables
    "time" // time holds the shutdown grace period

    "github.com/joho/godotenv"   // godotenv loads a local .env file when present
    "github.com/sirupsen/logrus" // logrus reports configuration errors and halts execution
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  DBDSN wins over the individual DB_* parts when set.
type Config struct {
    Env             string        // application environment (e.g. "dev", "prod")
    Port            string        // HTTP port to listen on
    LogLevel        string        // logrus level name
    DBDSN           string        // full MySQL DSN (optional)
    DBUser          string        // database username
    DBPass          string        // database password (optional)
    DBHost          string        // database host address
    DBPort          string        // database port number
    DBName          string        // database name
    ShutdownTimeout time.Duration // grace period for in-flight requests on shutdown
}

// Load reads configuration values from the environment and returns a
// Config.  A .env file in the working directory is loaded first if it
// exists; real environment variables take precedence.  Required variables
// are enforced by must() and missing values cause the program to exit.
func Load() Config {
    _ = godotenv.Load() // a missing .env is fine

    cfg := Config{
        Env:             must("APP_ENV"),      // environment (dev/test/prod)
        Port:            must("APP_PORT"),     // port to bind the HTTP server
        LogLevel:        getenv("LOG_LEVEL", "info"),
        DBDSN:           os.Getenv("DB_DSN"),
        DBPass:          os.Getenv("DB_PASS"), // database password (empty allowed)
        ShutdownTimeout: parseDur(getenv("SHUTDOWN_TIMEOUT", "10s")),
    }
    if cfg.DBDSN == "" {
        cfg.DBUser = must("DB_USER")
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    }
    return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        logrus.Fatalf("missing required env var: %s", key)
    }
    return v
}
