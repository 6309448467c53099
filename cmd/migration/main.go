package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/logging"
	"gitlab.com/dirk.krummacker/contacts-api/internal/store"
	"go.uber.org/zap"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go -file=../../scripts/database.sql
func main() {
	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sqlDB, err := store.CreateDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("could not open database", zap.Error(err))
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	count, err := execute(context.Background(), db, *filePtr)
	if err != nil {
		logger.Fatal("migration failed", zap.String("file", *filePtr), zap.Int("executed", count), zap.Error(err))
	}
	logger.Info("migration finished", zap.String("file", *filePtr), zap.Int("executed", count))
}

// execute runs the statements of the file one by one. A statement ends with the line that
// contains a semicolon.
func execute(ctx context.Context, db *sqlx.DB, file string) (int, error) {
	readFile, err := os.Open(file) // nosemgrep
	if err != nil {
		return 0, err
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	count := 0
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			if _, err := db.ExecContext(ctx, builder.String()); err != nil {
				return count, fmt.Errorf("statement %d: %w", count+1, err)
			}
			count++
			builder = strings.Builder{}
		}
	}
	return count, fileScanner.Err()
}
