package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host      string `env:"HOST,default=0.0.0.0"`
	Port      int    `env:"PORT,default=8080"`
	DebugPort int    `env:"DEBUG_PORT,default=8081"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	PingInterval         time.Duration `env:"WS_PING_INTERVAL,default=30s"`
	PongWait             time.Duration `env:"WS_PONG_WAIT,default=60s"`
	WriteWait            time.Duration `env:"WS_WRITE_WAIT,default=10s"`
	MaxMessageSize       int64         `env:"WS_MAX_MESSAGE_SIZE,default=4096"`

	StatsInterval   time.Duration `env:"STATS_INTERVAL,default=5s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`

	// Moderation is off unless a word list is configured.
	CensoredWordsPath string `env:"CENSORED_WORDS_PATH"`
	CharReplacement   string `env:"MODERATION_CHARACTER_REPLACEMENT,default=*"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
