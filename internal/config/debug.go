package config

import "os"

func IsDebug() bool {
	return os.Getenv("MATCHBOT_DEBUG") == "1"
}
