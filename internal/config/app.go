package config

import "os"

func Port() string {
	return os.Getenv("APP_PORT")
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}
