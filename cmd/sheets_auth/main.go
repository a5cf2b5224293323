// Command sheets_auth obtains the OAuth token the Google Sheets row source reads.
// It prints a consent URL, reads the authorization code from stdin and writes the token file.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/orders_sync_app/internal/adapters/sheets"
	"golang.org/x/oauth2"
)

func main() {
	credentialsPath := flag.String("credentials", "credentials.json", "OAuth client secret file")
	tokenPath := flag.String("token", "token.json", "where to write the token")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := sheets.LoadOAuthConfig(*credentialsPath)
	if err != nil {
		logger.Error("Failed to load credentials", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n> ", authURL)

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && strings.TrimSpace(code) == "" {
		logger.Error("Failed to read authorization code", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tok, err := cfg.Exchange(context.Background(), strings.TrimSpace(code))
	if err != nil {
		logger.Error("Failed to exchange authorization code", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := sheets.SaveToken(*tokenPath, tok); err != nil {
		logger.Error("Failed to save token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Token saved", slog.String("path", *tokenPath))
}
