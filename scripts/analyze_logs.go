package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors         int
	LoginSuccess        int
	LoginFailures       int
	Registrations       int
	OrdersCreated       int
	PaymentsVerified    int
	PartialEnrollments  int
	LedgerEntries       int
	Enrollments         int
	SignatureMismatches int
	InjectionAttempts   int
	NotifyFailures      int
	UserActivities      map[string]int
	ErrorPatterns       map[string]int
}

var (
	emailRegex   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	entriesRegex = regexp.MustCompile(`Recorded (\d+) payment entries`)
)

func main() {
	logDir := flag.String("dir", "./logs", "directory holding the dated log files")
	day := flag.String("date", time.Now().Format("2006-01-02"), "day to analyze, YYYY-MM-DD")
	flag.Parse()

	stats := &LogStats{
		UserActivities: make(map[string]int),
		ErrorPatterns:  make(map[string]int),
	}

	scanFile(filepath.Join(*logDir, fmt.Sprintf("error-%s.log", *day)), func(line string) {
		analyzeErrorLine(line, stats)
	})
	scanFile(filepath.Join(*logDir, fmt.Sprintf("info-%s.log", *day)), func(line string) {
		analyzeInfoLine(line, stats)
	})
	scanFile(filepath.Join(*logDir, fmt.Sprintf("warn-%s.log", *day)), func(line string) {
		analyzeWarnLine(line, stats)
	})
	scanFile(filepath.Join(*logDir, fmt.Sprintf("security-%s.log", *day)), func(line string) {
		analyzeSecurityLine(line, stats)
	})

	printReport(*day, stats)
}

func scanFile(logFile string, handle func(line string)) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		handle(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		fmt.Printf("Error reading log file %s: %v\n", logFile, err)
	}
}

func analyzeErrorLine(line string, stats *LogStats) {
	// security events are mirrored here and counted from their own file
	if strings.Contains(line, "security event:") {
		return
	}
	stats.TotalErrors++

	if strings.Contains(line, "Login attempt failed") {
		stats.LoginFailures++
		extractUserActivity(line, stats)
	}
	extractErrorPattern(line, stats)
}

func analyzeInfoLine(line string, stats *LogStats) {
	switch {
	case strings.Contains(line, "User logged in successfully"):
		stats.LoginSuccess++
		extractUserActivity(line, stats)
	case strings.Contains(line, "User registered successfully"):
		stats.Registrations++
		extractUserActivity(line, stats)
	case strings.Contains(line, "Created gateway order"):
		stats.OrdersCreated++
	case strings.Contains(line, "verified for user"):
		stats.PaymentsVerified++
	case strings.Contains(line, "enrolled in course"):
		stats.Enrollments++
	}

	if m := entriesRegex.FindStringSubmatch(line); m != nil {
		var n int
		fmt.Sscanf(m[1], "%d", &n)
		stats.LedgerEntries += n
	}
}

func analyzeWarnLine(line string, stats *LogStats) {
	if strings.Contains(line, "DownstreamNotifyError") {
		stats.NotifyFailures++
	}
	if strings.Contains(line, "failed enrollments") {
		stats.PartialEnrollments++
	}
}

func analyzeSecurityLine(line string, stats *LogStats) {
	if strings.Contains(line, "signature mismatch") {
		stats.SignatureMismatches++
	}
	if strings.Contains(line, "SQL injection attempt") {
		stats.InjectionAttempts++
	}
	if strings.Contains(line, "Login attempt failed") {
		stats.LoginFailures++
		extractUserActivity(line, stats)
	}
}

func extractUserActivity(line string, stats *LogStats) {
	if email := emailRegex.FindString(line); email != "" {
		stats.UserActivities[email]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	// drop the "ERROR: date time file:line:" prefix
	parts := strings.SplitN(line, ": ", 3)
	if len(parts) == 3 {
		msg := parts[2]
		if i := strings.Index(msg, ":"); i > 0 {
			msg = msg[:i]
		}
		stats.ErrorPatterns[strings.TrimSpace(msg)]++
	}
}

func printReport(day string, stats *LogStats) {
	fmt.Println("\n=== Log Analysis Report ===")
	fmt.Println("Day:", day)
	fmt.Println("Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("\n1. Authentication Statistics:")
	fmt.Printf("   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Printf("   Failed Logins: %d\n", stats.LoginFailures)
	fmt.Printf("   Registrations: %d\n", stats.Registrations)

	fmt.Println("\n2. Checkout Statistics:")
	fmt.Printf("   Orders Created: %d\n", stats.OrdersCreated)
	fmt.Printf("   Payments Verified: %d\n", stats.PaymentsVerified)
	fmt.Printf("   Ledger Entries: %d\n", stats.LedgerEntries)
	fmt.Printf("   New Enrollments: %d\n", stats.Enrollments)
	fmt.Printf("   Partially Failed Payments: %d\n", stats.PartialEnrollments)
	fmt.Printf("   Undelivered Notifications: %d\n", stats.NotifyFailures)

	fmt.Println("\n3. Security Incidents:")
	fmt.Printf("   Signature Mismatches: %d\n", stats.SignatureMismatches)
	fmt.Printf("   SQL Injection Attempts: %d\n", stats.InjectionAttempts)

	fmt.Println("\n4. Error Statistics:")
	fmt.Printf("   Total Errors: %d\n", stats.TotalErrors)

	fmt.Println("\n5. Most Active Users:")
	printTop(stats.UserActivities, 5, "activities")

	fmt.Println("\n6. Most Common Errors:")
	printTop(stats.ErrorPatterns, 5, "occurrences")
}

func printTop(counts map[string]int, limit int, unit string) {
	type entry struct {
		key   string
		count int
	}

	var entries []entry
	for key, count := range counts {
		entries = append(entries, entry{key, count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count == entries[j].count {
			return entries[i].key < entries[j].key
		}
		return entries[i].count > entries[j].count
	})

	for i, e := range entries {
		if i >= limit {
			break
		}
		fmt.Printf("   %s: %d %s\n", e.key, e.count, unit)
	}
}
