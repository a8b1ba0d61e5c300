// zeitctl is a small operator CLI for the timesheet service. It talks
// to the admin API of a running server:
//
//	zeitctl -server http://localhost:3001 login -password admin123
//	zeitctl -server http://localhost:3001 remind -kind first
//	zeitctl -server http://localhost:3001 smtp-check
//	zeitctl -server http://localhost:3001 stats
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type usageError struct {
	Arg   string
	Cause string
}

func (e *usageError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Cause)
}

func main() {
	server := flag.String("server", "http://localhost:3001", "base URL of the timesheet server")
	flag.Parse()

	if err := run(*server, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(server string, args []string) error {
	if len(args) == 0 {
		return &usageError{Arg: "<command>", Cause: "expected login, remind, smtp-check or stats"}
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch cmd := args[0]; cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		password := fs.String("password", "", "admin password")
		fs.Parse(args[1:])
		if *password == "" {
			return &usageError{Arg: "-password", Cause: "password is required"}
		}
		return call(client, http.MethodPost, server+"/api/admin/login",
			map[string]string{"password": *password})

	case "remind":
		fs := flag.NewFlagSet("remind", flag.ExitOnError)
		kind := fs.String("kind", "first", "reminder kind: first, second or final")
		fs.Parse(args[1:])
		return call(client, http.MethodPost, server+"/api/admin/test-emails",
			map[string]string{"reminderType": *kind})

	case "smtp-check":
		return call(client, http.MethodPost, server+"/api/admin/test-smtp", nil)

	case "stats":
		return call(client, http.MethodGet, server+"/api/admin/email-stats", nil)

	default:
		return &usageError{Arg: cmd, Cause: "unknown command"}
	}
}

// call performs one JSON request and pretty-prints the response body.
func call(client *http.Client, method, url string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		pretty.Write(data)
	}

	fmt.Printf("%s %s\n%s\n", resp.Status, url, pretty.String())
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
