/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

type LogLevel int

const (
	ErrorLevel LogLevel = iota
	WarningLevel
	InfoLevel
	DebugLevel
)

const (
	LogPrefix  = "[go-rdr] "
	HelpLevels = "Must be one of: error, warning, info, debug."
)

var levelNames = map[string]LogLevel{
	"error":   ErrorLevel,
	"warning": WarningLevel,
	"info":    InfoLevel,
	"debug":   DebugLevel,
}

var levelPrefixes = [...]string{
	ErrorLevel:   "[error] ",
	WarningLevel: "[warn] ",
	InfoLevel:    "[info] ",
	DebugLevel:   "[debug] ",
}

var (
	level  = InfoLevel
	logger = log.New(os.Stderr, LogPrefix, log.LstdFlags)
)

func SetLevel(strLevel string) error {
	l, ok := levelNames[strLevel]
	if !ok {
		return fmt.Errorf("wrong log level %q. %s", strLevel, HelpLevels)
	}
	level = l
	return nil
}

func Init(out io.Writer, strLevel string) {
	logger.SetOutput(out)
	if err := SetLevel(strLevel); err != nil {
		panic(err)
	}
}

func emit(l LogLevel, format string, v ...interface{}) {
	if level >= l {
		logger.Println(levelPrefixes[l] + fmt.Sprintf(format, v...))
	}
}

func Error(format string, v ...interface{}) {
	emit(ErrorLevel, format, v...)
}

func Warning(format string, v ...interface{}) {
	emit(WarningLevel, format, v...)
}

func Info(format string, v ...interface{}) {
	emit(InfoLevel, format, v...)
}

func Debug(format string, v ...interface{}) {
	emit(DebugLevel, format, v...)
}
