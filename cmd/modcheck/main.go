package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ivankudzin/worklance/backend/internal/client/modclient"
	"github.com/ivankudzin/worklance/backend/internal/infra/httpclient"
)

// modcheck pipes lines from stdin through the moderation gateway and
// prints one verdict per line. Meant for moderators and rule tuning.
func main() {
	gateway := flag.String("gateway", "http://localhost:8080", "moderation gateway base URL")
	token := flag.String("token", os.Getenv("MODCHECK_TOKEN"), "bearer access token")
	contentType := flag.String("type", "message", "content type: message, proposal, order or task")
	timeout := flag.Duration("timeout", 10*time.Second, "per-check timeout")
	flag.Parse()

	checker := modclient.NewHTTPChecker(*gateway, *token, httpclient.New(*timeout))
	session := modclient.NewSession(checker, modclient.Options{ContentType: *contentType})
	defer session.Close()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	exitCode := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		verdict, err := session.CheckNow(context.Background(), line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
			exitCode = 1
			continue
		}

		if !verdict.Flagged {
			fmt.Printf("ok\t%s\n", line)
			continue
		}

		reasons := make([]string, 0, len(verdict.Reasons))
		for _, reason := range verdict.Reasons {
			reasons = append(reasons, string(reason))
		}
		fmt.Printf("%s\t%.2f\t%s\t%s\n", verdict.Action, verdict.Confidence, strings.Join(reasons, ","), line)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		exitCode = 1
	}

	os.Exit(exitCode)
}
