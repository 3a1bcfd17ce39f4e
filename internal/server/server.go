// Package server exposes the linter over HTTP/3 for editor and CI
// integrations that want diagnostics without spawning a process per
// file.
package server

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	http3 "github.com/quic-go/quic-go/http3"
	"go.uber.org/zap"

	"github.com/cxxlint/cxxlint/internal/diag"
	"github.com/cxxlint/cxxlint/internal/engine"
)

// maxRequestBody bounds POST /lint payloads.
const maxRequestBody = 4 << 20

// LintResponse is the JSON body of POST /lint.
type LintResponse struct {
	RunID       string            `json:"run_id"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Errors      int               `json:"errors"`
	Warnings    int               `json:"warnings"`
}

// Server wraps the http3.Server lifecycle around the lint engine.
type Server struct {
	srv   *http3.Server
	eng   *engine.Engine
	log   *zap.Logger
	pc    net.PacketConn
	close func() error
}

// New creates a server bound to addr. TLS is self-signed and
// generated in memory; this is a development server.
func New(addr string, eng *engine.Engine, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tlsCfg, err := selfSignedTLS([]string{"localhost", "127.0.0.1", "::1"})
	if err != nil {
		return nil, fmt.Errorf("server: generate TLS config: %w", err)
	}

	s := &Server{eng: eng, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /lint", s.handleLint)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.srv = &http3.Server{Addr: addr, TLSConfig: tlsCfg, Handler: mux}

	return s, nil
}

// Start begins serving and returns the actual bound address, which
// differs from the configured one when the port was ":0".
func (s *Server) Start() (string, error) {
	pc, err := net.ListenPacket("udp", s.srv.Addr)
	if err != nil {
		return "", fmt.Errorf("server: listen %s: %w", s.srv.Addr, err)
	}
	s.pc = pc
	realAddr := pc.LocalAddr().String()

	done := make(chan struct{})
	go func() {
		_ = s.srv.Serve(pc)
		close(done)
	}()
	s.close = func() error {
		_ = pc.Close()
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return nil
	}
	s.log.Info("serving", zap.String("addr", realAddr))

	return realAddr, nil
}

// Stop closes the listener and waits briefly for the serve loop to
// drain.
func (s *Server) Stop() error {
	if s.close != nil {
		return s.close()
	}

	return nil
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(src) > maxRequestBody {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	name := r.URL.Query().Get("filename")
	if name == "" {
		name = "input.cpp"
	}

	runID := uuid.NewString()
	start := time.Now()
	diags := s.eng.LintSource(name, src, nil)
	s.log.Info("lint request",
		zap.String("run_id", runID),
		zap.String("filename", name),
		zap.Int("bytes", len(src)),
		zap.Int("diagnostics", len(diags)),
		zap.Duration("duration", time.Since(start)))

	resp := LintResponse{
		RunID:       runID,
		Diagnostics: diags,
	}
	for _, d := range diags {
		switch d.Severity {
		case diag.SeverityError:
			resp.Errors++
		case diag.SeverityWarning:
			resp.Warnings++
		}
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []diag.Diagnostic{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Warn("write response", zap.String("run_id", runID), zap.Error(err))
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// Client returns an HTTP/3 client that accepts the server's
// self-signed certificate. For tests and local tooling.
func Client(timeout time.Duration) *http.Client {
	tr := &http3.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true, MinVersion: tls.VersionTLS12},
	}

	return &http.Client{Transport: tr, Timeout: timeout}
}

// CloseClient shuts down the client's HTTP/3 round tripper.
func CloseClient(c *http.Client) {
	if tr, ok := c.Transport.(*http3.Transport); ok {
		_ = tr.Close()
	}
}

func selfSignedTLS(hosts []string) (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS13,
		NextProtos:   []string{"h3"},
	}, nil
}
