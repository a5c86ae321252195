package natsjetstream

import "time"

type Config struct {
	URL           string
	MaxReconnect  int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

type StreamConfig struct {
	Name     string
	Subjects []string
}
