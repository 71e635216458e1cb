package log

import "github.com/sirupsen/logrus"

type Config struct {
	Level     logrus.Level
	Env       string
	LogToFile bool
	FilePath  string
	Service   string
}
