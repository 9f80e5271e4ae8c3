package config

import "github.com/caarlos0/env/v11"

type Config struct {
	Token        string  `env:"TOKEN,required,notEmpty"`
	AllowedUsers []int64 `env:"ALLOWED_USERS"`
	DBPath       string  `env:"DB_PATH"                 envDefault:"db.sqlite"`
	OpenAIAPIKey string  `env:"OPENAI_API_KEY"`
	OpenAIModel  string  `env:"OPENAI_MODEL"            envDefault:"gpt-4o-mini"`
	GeminiAPIKey string  `env:"GEMINI_API_KEY"`
	GeminiModel  string  `env:"GEMINI_MODEL"            envDefault:"gemini-1.5-flash"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
