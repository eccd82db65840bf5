package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

type Env struct {
	Stage           string
	Port            int
	DatabaseURL     string
	BoardConfigPath string
	BotLayoutPath   string
}

// LoadEnv reads the process environment. Outside prod a .env file is
// loaded first.
func LoadEnv() (Env, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(".env"); err != nil {
			return Env{}, err
		}
	}

	env := Env{
		Stage:           os.Getenv("STAGE"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		BoardConfigPath: os.Getenv("BOARD_CONFIG"),
		BotLayoutPath:   os.Getenv("BOT_LAYOUT"),
	}
	if env.Stage != StageDev && env.Stage != StageProd {
		return Env{}, fmt.Errorf("stage must be either dev or prod, got: %q", env.Stage)
	}

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		return Env{}, fmt.Errorf("invalid PORT: %w", err)
	}
	env.Port = port

	return env, nil
}
