// Package main runs the users API and the leaderboard dashboard in one
// container and supervises both.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/louisbranch/statboard/internal/platform/config"
)

// shutdownTimeout is the grace period before forcing child exit.
const shutdownTimeout = 10 * time.Second

// stackConfig locates the child binaries and their listen addresses.
type stackConfig struct {
	UserStatsBin    string `env:"STATBOARD_STACK_USERSTATS_BIN" envDefault:"/app/userstats"`
	LeaderboardBin  string `env:"STATBOARD_STACK_LEADERBOARD_BIN" envDefault:"/app/leaderboard"`
	UsersHTTPAddr   string `env:"STATBOARD_STACK_USERS_HTTP_ADDR" envDefault:"127.0.0.1:8095"`
	UsersHealthPort int    `env:"STATBOARD_STACK_USERS_HEALTH_PORT" envDefault:"8096"`
	LeaderboardAddr string `env:"STATBOARD_STACK_LEADERBOARD_ADDR" envDefault:"0.0.0.0:8080"`
	SeedDemoUsers   bool   `env:"STATBOARD_STACK_SEED" envDefault:"true"`
}

// childProcess describes a managed child command.
type childProcess struct {
	name string
	cmd  *exec.Cmd
}

// processExit reports a child process exit result.
type processExit struct {
	name string
	err  error
}

func main() {
	log.SetPrefix("[STATBOARD] ")
	var cfg stackConfig
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	usersCmd, boardCmd := stackCommands(cfg)
	users, err := startChild("userstats", usersCmd)
	if err != nil {
		log.Fatalf("failed to start users api: %v", err)
	}
	board, err := startChild("leaderboard", boardCmd)
	if err != nil {
		terminateChildren([]*childProcess{users})
		log.Fatalf("failed to start leaderboard: %v", err)
	}

	children := []*childProcess{users, board}
	exitCh := make(chan processExit, len(children))
	go waitChild(users, exitCh)
	go waitChild(board, exitCh)

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
		terminateChildren(children)
		waitForChildren(exitCh, len(children), shutdownTimeout, children)
		return
	case exit := <-exitCh:
		log.Printf("child exited name=%s err=%v", exit.name, exit.err)
		terminateChildren(children)
		waitForChildren(exitCh, len(children)-1, shutdownTimeout, children)
		os.Exit(exitCode(exit.err))
	}
}

// stackCommands builds the users API command and the dashboard command. The
// dashboard waits on the users API health port before serving.
func stackCommands(cfg stackConfig) (*exec.Cmd, *exec.Cmd) {
	usersArgs := []string{
		"-http-addr=" + cfg.UsersHTTPAddr,
		"-health-port=" + strconv.Itoa(cfg.UsersHealthPort),
	}
	if cfg.SeedDemoUsers {
		usersArgs = append(usersArgs, "-seed")
	}
	boardArgs := []string{
		"-http-addr=" + cfg.LeaderboardAddr,
		"-users-base-url=http://" + cfg.UsersHTTPAddr,
		"-users-health-addr=" + fmt.Sprintf("127.0.0.1:%d", cfg.UsersHealthPort),
	}
	return exec.Command(cfg.UserStatsBin, usersArgs...), exec.Command(cfg.LeaderboardBin, boardArgs...)
}

// startChild starts a child process with inherited stdio streams.
func startChild(name string, cmd *exec.Cmd) (*childProcess, error) {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	return &childProcess{name: name, cmd: cmd}, nil
}

func waitChild(child *childProcess, exitCh chan<- processExit) {
	err := child.cmd.Wait()
	exitCh <- processExit{name: child.name, err: err}
}

// terminateChildren sends SIGTERM to all child processes.
func terminateChildren(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		_ = child.cmd.Process.Signal(syscall.SIGTERM)
	}
}

// waitForChildren waits for the remaining exits or kills what is left.
func waitForChildren(exitCh <-chan processExit, remaining int, timeout time.Duration, children []*childProcess) {
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for remaining > 0 {
		select {
		case <-exitCh:
			remaining--
		case <-timer.C:
			forceKill(children)
			return
		}
	}
}

func forceKill(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		if child.cmd.ProcessState != nil {
			continue
		}
		_ = child.cmd.Process.Kill()
	}
}

// exitCode derives a process exit code from a wait error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
