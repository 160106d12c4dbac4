package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	// InfoLogger logs informational messages
	InfoLogger *log.Logger
	// ErrorLogger logs error messages
	ErrorLogger *log.Logger
	// DebugLogger logs debug messages
	DebugLogger *log.Logger
	// WarnLogger logs recoverable failures such as undelivered mail
	WarnLogger *log.Logger
	// SecurityLogger logs rejected payment callbacks and other suspicious input
	SecurityLogger *log.Logger
)

// InitLogger opens one dated log file per level inside logsDir
func InitLogger(logsDir string) error {
	if logsDir == "" {
		logsDir = DefaultLogDir
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	open := func(name string) (*os.File, error) {
		file, err := os.OpenFile(
			filepath.Join(logsDir, fmt.Sprintf("%s-%s.log", name, timestamp)),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0644,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s log file: %v", name, err)
		}
		return file, nil
	}

	infoFile, err := open("info")
	if err != nil {
		return err
	}
	errorFile, err := open("error")
	if err != nil {
		return err
	}
	debugFile, err := open("debug")
	if err != nil {
		return err
	}
	warnFile, err := open("warn")
	if err != nil {
		return err
	}
	securityFile, err := open("security")
	if err != nil {
		return err
	}

	InfoLogger = log.New(infoFile, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(errorFile, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	DebugLogger = log.New(debugFile, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(warnFile, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	SecurityLogger = log.New(securityFile, "SECURITY: ", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Printf(format, v...)
	}
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Printf(format, v...)
	}
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Printf(format, v...)
	}
}

// LogWarn logs a warning message
func LogWarn(format string, v ...interface{}) {
	if WarnLogger != nil {
		WarnLogger.Printf(format, v...)
	}
}

// LogSecurity logs a security relevant event. Entries are mirrored to the error log.
func LogSecurity(format string, v ...interface{}) {
	if SecurityLogger != nil {
		SecurityLogger.Printf(format, v...)
	}
	LogError("security event: "+format, v...)
}

// LogRequest writes one access line per request
func LogRequest(requestID, method, path, ip string, status int, duration time.Duration) {
	LogInfo("[%s] %s %s from %s - Status: %d - Duration: %v", requestID, method, path, ip, status, duration)
}

// LogErrorWithStack logs a recovered panic with its stack trace
func LogErrorWithStack(requestID string, err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("[%s] panic: %v\nStack Trace:\n%s", requestID, err, stack)
	}
}
