package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"

	gossh "github.com/gliderlabs/ssh"
	"github.com/google/uuid"
	"go.uber.org/zap"
	xssh "golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

// sshServer plays one independent game per SSH connection. Sessions share
// nothing but the read-only template world.
type sshServer struct {
	template *World
	log      *zap.Logger
}

func (srv *sshServer) handle(sess gossh.Session) {
	id := uuid.NewString()
	log := srv.log.With(
		zap.String("session", id),
		zap.String("user", sess.User()),
		zap.String("remote", sess.RemoteAddr().String()))
	log.Info("ssh session started")

	var in lineReader
	var out io.Writer
	if pty, winCh, ok := sess.Pty(); ok {
		t := term.NewTerminal(sess, DefaultPrompt)
		_ = t.SetSize(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				_ = t.SetSize(win.Width, win.Height)
			}
		}()
		in, out = t, t
	} else {
		in, out = newPlainReader(sess, sess, DefaultPrompt), sess
	}

	game := NewGame(srv.template.Clone(), out, log)
	err := runSession(game, in)
	if err != nil {
		log.Warn("ssh session read failed", zap.Error(err))
	}
	log.Info("ssh session ended", zap.Int("turns", game.Turns))
	_ = sess.Exit(0)
}

func runSSH(addr, keyPath string, template *World, log *zap.Logger) error {
	signer, err := loadOrCreateHostKey(keyPath, log)
	if err != nil {
		return err
	}
	srv := &sshServer{template: template, log: log}
	server := &gossh.Server{
		Addr:        addr,
		Handler:     srv.handle,
		HostSigners: []gossh.Signer{signer},
	}
	log.Info("ssh server listening", zap.String("addr", addr))
	return server.ListenAndServe()
}

// loadOrCreateHostKey loads a PEM private key from path, or generates an
// ed25519 key and tries to keep it there for the next start.
func loadOrCreateHostKey(path string, log *zap.Logger) (gossh.Signer, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		signer, err := xssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("host key %q: %w", path, err)
		}
		log.Info("loaded host key", zap.String("path", path))
		return signer, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("host key %q: %w", path, err)
	}

	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate host key: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("host key signer: %w", err)
	}
	block, err := xssh.MarshalPrivateKey(key, "cdevrpgadv host key")
	if err != nil {
		return nil, fmt.Errorf("encode host key: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		log.Warn("host key not saved", zap.String("path", path), zap.Error(err))
	} else {
		log.Info("generated host key", zap.String("path", path))
	}
	return signer, nil
}
