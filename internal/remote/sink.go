package remote

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Sink streams generated lines into a file on a remote host over SSH. It
// implements io.WriteCloser; lines are piped into a remote cat process.
type Sink struct {
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	addr    string
	path    string
}

// Options configures a remote sink connection
type Options struct {
	User     string
	Host     string
	Port     int
	Path     string
	Password string
	// IdentityFile is an SSH private key path, ~ expands to the home dir.
	IdentityFile string
	// KnownHostsFile verifies the host key unless Insecure is set.
	KnownHostsFile string
	Insecure       bool
}

// ParseSpec splits a user@host:/path destination spec.
func ParseSpec(spec string) (user, host, path string, err error) {
	at := strings.Index(spec, "@")
	if at <= 0 {
		return "", "", "", fmt.Errorf("remote spec %q: want user@host:/path", spec)
	}
	user = spec[:at]

	rest := spec[at+1:]
	colon := strings.Index(rest, ":")
	if colon <= 0 || colon == len(rest)-1 {
		return "", "", "", fmt.Errorf("remote spec %q: want user@host:/path", spec)
	}

	return user, rest[:colon], rest[colon+1:], nil
}

// Dial connects and starts the remote writer process.
func Dial(opts Options) (*Sink, error) {
	config := &ssh.ClientConfig{
		User:            opts.User,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	if !opts.Insecure && opts.KnownHostsFile != "" {
		callback, err := hostKeyCallback(opts.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to setup known hosts: %w", err)
		}
		config.HostKeyCallback = callback
	}

	if opts.IdentityFile != "" {
		signer, err := loadPrivateKey(opts.IdentityFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load private key: %w", err)
		}
		config.Auth = append(config.Auth, ssh.PublicKeys(signer))
	}

	if opts.Password != "" {
		config.Auth = append(config.Auth, ssh.Password(opts.Password))
	}

	port := opts.Port
	if port == 0 {
		port = 22
	}
	addr := fmt.Sprintf("%s:%d", opts.Host, port)

	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	if err := session.Start(fmt.Sprintf("cat > '%s'", opts.Path)); err != nil {
		stdin.Close()
		session.Close()
		client.Close()
		return nil, fmt.Errorf("failed to start remote writer: %w", err)
	}

	return &Sink{
		client:  client,
		session: session,
		stdin:   stdin,
		addr:    addr,
		path:    opts.Path,
	}, nil
}

// Write sends bytes to the remote file.
func (s *Sink) Write(p []byte) (int, error) {
	return s.stdin.Write(p)
}

// Close flushes the remote writer and tears down the connection. The remote
// cat only exits cleanly once stdin is closed, so order matters here.
func (s *Sink) Close() error {
	var firstErr error

	if err := s.stdin.Close(); err != nil {
		firstErr = err
	}
	if err := s.session.Wait(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("remote writer failed: %w", err)
	}
	s.session.Close()
	if err := s.client.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

// Destination returns a human-readable destination for the summary message.
func (s *Sink) Destination() string {
	return s.addr + ":" + s.path
}

func loadPrivateKey(path string) (ssh.Signer, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	key, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ssh.ParsePrivateKey(key)
}

func hostKeyCallback(knownHostsPath string) (ssh.HostKeyCallback, error) {
	path, err := expandHome(knownHostsPath)
	if err != nil {
		return nil, err
	}

	return knownhosts.New(path)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
