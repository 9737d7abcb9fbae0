package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Server holds configuration for the API server.
type Server struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
}

// Client holds configuration for the terminal client.
type Client struct {
	APIURL   string
	StateDir string
}

// LoadServer reads server configuration from the environment. A .env file is
// loaded first if present so local development does not need exported vars.
func LoadServer() (*Server, error) {
	_ = godotenv.Load()

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Server{
		Port:        port,
		DatabaseURL: databaseURL,
		JWTSecret:   jwtSecret,
	}, nil
}

// LoadClient reads client configuration from the environment.
func LoadClient() (*Client, error) {
	_ = godotenv.Load()

	apiURL := os.Getenv("SWIFTLOGI_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	stateDir := os.Getenv("SWIFTLOGI_STATE_DIR")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine state dir: %w", err)
		}
		stateDir = home + "/.swiftlogi"
	}

	return &Client{APIURL: apiURL, StateDir: stateDir}, nil
}
