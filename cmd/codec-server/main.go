package main

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/pkcs12"

	"github.com/supercon99/gematria/pkg/encoding"
	"github.com/supercon99/gematria/pkg/handler/digest"
	"github.com/supercon99/gematria/pkg/hexutil"
	codechttp "github.com/supercon99/gematria/pkg/http"
	logutil "github.com/supercon99/gematria/pkg/log"
	"github.com/supercon99/gematria/pkg/sys"
)

var stdOut = os.Stdout
var stdErr = os.Stderr

type Config struct {
	// cli args
	RunServer bool
	Daemon    bool
	Digests   []string

	StdOut string

	// Transcode command args
	Encoding  string
	Digest    string
	Data      string
	OutFormat string
	OutFile   string

	// Server args
	GracefulTimeout time.Duration
	ServerKeyPath   string
	CaCertsPath     string
	ClientCAPath    string

	CertPath string
	Host     string
	Port     string

	DevelopmentLogging bool
	MaxBodySizeBytes   int
	DisableAuth        bool
	DisableHTTPS       bool

	GlobalRateLimit    int
	PerClientRateLimit int

	// calculated by program
	Logger *zap.Logger
}

func (c *Config) Validate(args []string) error {
	if c.MaxBodySizeBytes <= 0 {
		return errors.New("max body size must be > 0")
	}
	if c.Logger == nil {
		return errors.New("logger must be set")
	}

	if c.RunServer {
		if !c.DisableHTTPS {
			if c.ServerKeyPath == "" {
				return errors.New("path to private server key file must be set")
			}
			if c.CertPath == "" && !strings.HasSuffix(c.ServerKeyPath, ".pfx") {
				return errors.New("path to cert file must be set")
			}
			if c.Host == "" {
				return errors.New("host must be set if https is enabled")
			}
		}
		if c.Port == "" {
			return errors.New("port must be set")
		}
		if c.GlobalRateLimit < 0 || c.PerClientRateLimit < 0 {
			return errors.New("rate limits must be >= 0")
		}
		if c.DisableAuth {
			c.Logger.Warn("running server with disabled authentication. should only be used for development")
		} else {
			if c.ClientCAPath == "" {
				return errors.New("client CA must be set")
			}
		}
	} else {
		if c.Data != "" && len(args) > 0 {
			return errors.New("either input by argument or by file possible")
		}
		if len(args) > 1 {
			return errors.New("only one input file possible")
		}
	}

	return nil
}

func createTLSConfig(host string, disableAuth bool, caCertsPath string, certPath string, privateKeyPath string, clientCaCertsPath string, logger *zap.Logger) (*tls.Config, error) {
	var caCertPool *x509.CertPool
	var caRootCertPool *x509.CertPool
	var clientAuthType tls.ClientAuthType

	privateKey, _, cert, err := parseRSAPrivateKey("server", privateKeyPath)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		_, cert, err = parsePublicKeyCert("server", certPath)
		if err != nil {
			return nil, err
		}
	}

	if caCertsPath != "" {
		caRootCertPool, err = x509.SystemCertPool()
		if err != nil {
			return nil, err
		}
		caCert, err := os.ReadFile(caCertsPath)
		if err != nil {
			return nil, fmt.Errorf("unable to open ca certs file: %w", err)
		}

		if ok := caRootCertPool.AppendCertsFromPEM(caCert); !ok {
			return nil, fmt.Errorf("unable to append ca certs to cert pool")
		}

		chain, err := cert.Verify(x509.VerifyOptions{Roots: caRootCertPool})
		if err != nil {
			return nil, fmt.Errorf("cannot verify server certificate: %w", err)
		}
		logger.Info("issuing server chain", zap.String("issuer chain", chains(chain)))
	}

	if disableAuth {
		clientAuthType = tls.NoClientCert
	} else {
		clientAuthType = tls.RequireAndVerifyClientCert
		caCertPool = x509.NewCertPool()
		caCerts, err := os.ReadFile(clientCaCertsPath)
		if err != nil {
			return nil, fmt.Errorf("unable to open client ca certs file: %w", err)
		}
		if ok := caCertPool.AppendCertsFromPEM(caCerts); !ok {
			return nil, fmt.Errorf("unable to append client ca certs to cert pool")
		}
	}

	pair := tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  privateKey,
	}

	return &tls.Config{
		ServerName:   host,
		ClientAuth:   clientAuthType,
		ClientCAs:    caCertPool,
		Certificates: []tls.Certificate{pair},
		RootCAs:      caRootCertPool,
		MinVersion:   tls.VersionTLS12, // TLS versions below 1.2 are considered insecure - see https://www.rfc-editor.org/rfc/rfc7525.txt for details
	}, nil
}

func parseCertificate(name string, certPath string) ([]byte, *pem.Block, *x509.Certificate, error) {
	certBytes, err := os.ReadFile(certPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("unable to read %s cert file %q: %w", name, certPath, err)
	}

	certBlock, rest := pem.Decode(certBytes)
	if certBlock == nil && len(rest) > 0 {
		return nil, nil, nil, fmt.Errorf("unable to parse %s cert file %q: unable to pem decode %s", name, certPath, string(rest))
	}

	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse %s certificate from %q: %w", name, certPath, err)
	}
	return certBytes, certBlock, cert, err
}

func chains(chains [][]*x509.Certificate) string {
	r := ""
	for _, ch := range chains {
		if r != "" {
			r += "; "
		}
		sep := ""
		for _, c := range ch {
			r += sep + c.Issuer.String()
			sep = "->"
		}
	}
	return r
}

func parsePublicKeyCert(name string, certPath string) (*pem.Block, *x509.Certificate, error) {

	if certPath != "" {
		_, block, cert, err := parseCertificate(name, certPath)
		if err == nil {
			return block, cert, nil
		}
	}
	return nil, nil, nil
}

func parseRSAPrivateKey(name string, privateKeyPath string) (*rsa.PrivateKey, *pem.Block, *x509.Certificate, error) {
	privateKeyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("unable to read %s private key file: %w", name, err)
	}
	if strings.HasSuffix(privateKeyPath, ".pfx") {
		ename := fmt.Sprintf("%s_PFX_PASSWORD", strings.ToUpper(name))
		pw, ok := os.LookupEnv(ename)
		if !ok {
			return nil, nil, nil, fmt.Errorf("password for %s pfx file required in environment (%s)", name, ename)
		}
		if pw == "" {
			return nil, nil, nil, fmt.Errorf("non-empty password for %s pfx file required in environment (%s)", name, ename)
		}
		key, cert, err := pkcs12.Decode(privateKeyBytes, pw)
		if err != nil {
			return nil, nil, nil, err
		}
		var block *pem.Block
		if cert != nil {
			block = &pem.Block{
				Type:  "CERTIFICATE",
				Bytes: cert.Raw,
			}
		}
		if k, ok := key.(*rsa.PrivateKey); ok {
			return k, block, cert, err
		}
		return nil, nil, nil, fmt.Errorf("no rsa key found in %q", privateKeyPath)
	}

	privateKeyBlock, rest := pem.Decode(privateKeyBytes)
	if privateKeyBlock != nil && len(rest) > 0 {
		return nil, nil, nil, fmt.Errorf("private key file contains undecodable data besides pem block: %s", string(rest))
	}

	if privateKeyBlock == nil && len(rest) == len(privateKeyBytes) {
		// found no pem data in private key file
		// try parsing with PKCS #1, ASN.1 DER form (binary)
		rsaPrivateKey, err := x509.ParsePKCS1PrivateKey(privateKeyBytes)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("unable to parse pkcs1 private key: %w", err)
		}
		return rsaPrivateKey, nil, nil, nil
	} else if strings.ToLower(strings.Trim(privateKeyBlock.Type, "- ")) == "rsa private key" {
		// found pem encoded PKCS #1, ASN.1 DER form
		rsaPrivateKey, err := x509.ParsePKCS1PrivateKey(privateKeyBlock.Bytes)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("unable to parse pkcs1 private key: %w", err)
		}
		return rsaPrivateKey, nil, nil, nil
	} else {
		// try parsing with PKCS #8, ASN.1 DER form in rest of cases
		untypedPrivateKey, err := x509.ParsePKCS8PrivateKey(privateKeyBlock.Bytes)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("unable to parse pkcs8 private key: %w", err)
		}

		rsaPrivateKey, ok := untypedPrivateKey.(*rsa.PrivateKey)
		if !ok {
			return nil, nil, nil, fmt.Errorf("parsed pkcs8 private key is not of type *rsa.PrivateKey: actual type is %T", untypedPrivateKey)
		}

		return rsaPrivateKey, nil, nil, nil
	}
}

func run(cfg *Config) error {

	err := cfg.Validate(pflag.CommandLine.Args())
	if err != nil {
		return fmt.Errorf("unable to validate config: %w", err)
	}

	// setup digest handlers
	for _, n := range digest.GetRegisteredHashFunctions() {
		h, err := digest.New(n)
		if err != nil {
			return fmt.Errorf("unable to setup digest handler: %w", err)
		}
		digest.Register(h)
	}

	for _, n := range cfg.Digests {
		if _, err := digest.Get(n); err != nil {
			return err
		}
	}

	responseBuilders := encoding.CreateResponseBuilders()

	if cfg.RunServer {
		if cfg.Daemon {
			cfg.Logger.Info("detaching processs")
			err := sys.Detach()
			if err != nil {
				return err
			}
		}
		return RunServer(cfg, responseBuilders)
	} else {
		return RunCodec(cfg, pflag.CommandLine.Args(), responseBuilders)
	}
}

func RunCodec(cfg *Config, args []string, responseBuilders map[string]encoding.ResponseBuilder) error {
	builder := responseBuilders[cfg.OutFormat]
	if builder == nil {
		return fmt.Errorf("unknown output format %q", cfg.OutFormat)
	}
	decode, err := encoding.GetDecoder(cfg.Encoding)
	if err != nil {
		return err
	}

	var digester digest.DigestHandler
	if cfg.Digest != "" {
		digester, err = digest.Get(cfg.Digest)
		if err != nil {
			return err
		}
	}

	var data []byte
	if cfg.Data != "" {
		data = []byte(cfg.Data)
	} else {
		if len(args) > 1 {
			return fmt.Errorf("only one input file possible")
		}
		if len(args) == 1 && args[0] != "-" {
			data, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("cannot read input file %q: %w", args[0], err)
			}
		} else {
			data, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("cannot read data from stdin: %w", err)
			}
		}
	}
	payload, err := decode.Decode(data)
	if err != nil {
		return fmt.Errorf("cannot decode input: %w", err)
	}

	annotations := map[string]string{
		encoding.SourceEncodingHeader: cfg.Encoding,
	}
	if digester != nil {
		payload, err = digester.Sum(payload)
		if err != nil {
			return err
		}
		annotations[encoding.DigestAlgorithmHeader] = digester.Name()
	}
	cfg.Logger.Info("transcode", zap.String("payload", hexutil.FormatHexString(payload)), zap.String("encoding", cfg.Encoding))

	out, err := builder.BuildResponse(payload, annotations)
	if err != nil {
		return err
	}
	if cfg.OutFile == "" {
		_, err = stdOut.Write(out)
	} else {
		err = os.WriteFile(cfg.OutFile, out, 0600)
	}
	return err
}

func RunServer(cfg *Config, responseBuilders map[string]encoding.ResponseBuilder) error {
	var err error

	addr := ":" + cfg.Port

	r := mux.NewRouter()
	for _, name := range encoding.SupportedDecoders() {
		decoder, err := encoding.GetDecoder(name)
		if err != nil {
			return err
		}
		route := fmt.Sprintf("/decode/%s", name)
		cfg.Logger.Info("register route", zap.String("route", route))
		r.Methods(http.MethodPost).Path(route).Handler(codechttp.CreateTranscodeHandler(name, decoder, responseBuilders, cfg.MaxBodySizeBytes))
	}
	for _, name := range encoding.SupportedEncoders() {
		encoder, err := encoding.GetEncoder(name)
		if err != nil {
			return err
		}
		route := fmt.Sprintf("/encode/%s", name)
		cfg.Logger.Info("register route", zap.String("route", route))
		r.Methods(http.MethodPost).Path(route).Handler(codechttp.CreateEncodeHandler(name, encoder, cfg.MaxBodySizeBytes))
	}
	for _, h := range digest.All(cfg.Digests...) {
		route := fmt.Sprintf("/digest/%s", h.Name())
		cfg.Logger.Info("register route", zap.String("route", route))
		r.Methods(http.MethodPost).Path(route).Handler(h.HTTPHandler(responseBuilders, cfg.MaxBodySizeBytes))
	}
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	lm := logutil.LoggingMiddleware{
		Logger: cfg.Logger,
	}

	r.Use(lm.PrepareLogger)
	r.Use(lm.LogRequests)

	if cfg.GlobalRateLimit > 0 || cfg.PerClientRateLimit > 0 {
		rl := codechttp.NewRateLimiter(cfg.GlobalRateLimit, cfg.PerClientRateLimit)
		r.Use(rl.Limit)
	}

	var tlsConfig *tls.Config
	if !cfg.DisableHTTPS {
		tlsConfig, err = createTLSConfig(cfg.Host, cfg.DisableAuth, cfg.CaCertsPath, cfg.CertPath, cfg.ServerKeyPath, cfg.ClientCAPath, cfg.Logger)
		if err != nil {
			return fmt.Errorf("unable to create tls config: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Minute * 15,
		IdleTimeout:  time.Second * 15,
		Handler:      r,
		TLSConfig:    tlsConfig,
	}

	var startServer func() error
	if cfg.DisableHTTPS {
		startServer = func() error {
			return srv.ListenAndServe()
		}
	} else {
		startServer = func() error {
			return srv.ListenAndServeTLS("", "")
		}
	}

	stop := make(chan struct{})
	go func() {
		cfg.Logger.Info("starting server", zap.String("address", addr))
		if err := startServer(); err != nil {
			cfg.Logger.Error("server stopped with error", zap.Error(err))
		}
		stop <- struct{}{}
	}()

	c := make(chan os.Signal, 1)
	// We'll accept graceful shutdowns when quit via SIGINT (Ctrl+C)
	// SIGKILL, SIGQUIT or SIGTERM (Ctrl+/) will not be caught.
	signal.Notify(c, os.Interrupt)

	// Block until we receive our signal.
	select {
	case <-c:
	case <-stop:
	}

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GracefulTimeout)
	defer cancel()
	// Doesn't block if no connections, but will otherwise wait
	// until the timeout deadline.
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("unable to shutdown server: %w", err)
	}
	cfg.Logger.Info("shutting down server")
	return nil
}

func main() {
	cfg := Config{}

	pflag.StringVar(&cfg.StdOut, "stdout", "", "[OPTIONAL] log file for stderr, stdout and logging")

	pflag.BoolVar(&cfg.RunServer, "server", false, "[OPTIONAL] run codec server")
	pflag.BoolVar(&cfg.Daemon, "daemon", false, "[OPTIONAL] run codec server in detached mode")
	pflag.StringSliceVar(&cfg.Digests, "digests", nil, "[OPTIONAL] digest algorithms offered by the codec server")
	pflag.StringVar(&cfg.Encoding, "encoding", encoding.Raw, "[OPTIONAL] encoding for data")
	pflag.StringVar(&cfg.OutFormat, "format", encoding.MediaTypeOctetStreamHex, "[OPTIONAL] output format")
	pflag.StringVar(&cfg.Digest, "digest", "", "[OPTIONAL] digest the decoded data with the given algorithm")
	pflag.StringVar(&cfg.Data, "data", "", "[OPTIONAL] input data as argument")
	pflag.StringVar(&cfg.OutFile, "out", "", "[OPTIONAL] output file")

	pflag.StringVar(&cfg.ServerKeyPath, "server-key", "", `path to a file which contains the server private key.
supported formats are:
- PKCS#1 (.der, .pem)
- PKCS#8 (.pem)
- PKCS#12 (.pfx)`)
	pflag.StringVar(&cfg.CertPath, "cert", "", "path to a file which contains the server certificate in pem format")
	pflag.StringVar(&cfg.CaCertsPath, "ca-certs", "", "[OPTIONAL] path to a file which contains the concatenation of any intermediate and ca certificate in pem format")
	pflag.StringVar(&cfg.ClientCAPath, "client-ca-certs", "", "[OPTIONAL] CA used for client certificates")
	pflag.DurationVar(&cfg.GracefulTimeout, "graceful-timeout", time.Second*15, "[OPTIONAL] the duration for which the server gracefully wait for existing connections to finish - e.g. 15s or 1m")
	pflag.StringVar(&cfg.Host, "host", "localhost", "[OPTIONAL] hostname that is resolvable via dns")
	pflag.StringVar(&cfg.Port, "port", "8080", "[OPTIONAL] port where the server should listen")
	pflag.BoolVar(&cfg.DevelopmentLogging, "dev-logging", false, "[OPTIONAL] enable development logging")
	pflag.IntVar(&cfg.MaxBodySizeBytes, "max-body-size", 1048576, "[OPTIONAL] maximum allowed size of the request body in bytes")
	pflag.BoolVar(&cfg.DisableAuth, "disable-auth", false, "[OPTIONAL] disable authentication. should only be used for development")
	pflag.BoolVar(&cfg.DisableHTTPS, "disable-https", false, "[OPTIONAL] disable https. runs the server with http")
	pflag.IntVar(&cfg.GlobalRateLimit, "rate-limit", 0, "[OPTIONAL] allowed requests per second over all clients. 0 disables the limit")
	pflag.IntVar(&cfg.PerClientRateLimit, "rate-limit-per-client", 0, "[OPTIONAL] allowed requests per second per client. 0 disables the limit")
	pflag.Parse()

	var err error
	var logger *zap.Logger

	stdOut = os.Stdout
	stdErr = os.Stderr
	if cfg.StdOut != "" {
		var out *os.File
		out, err = os.OpenFile(cfg.StdOut, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err == nil {
			fmt.Printf("redirecting all output to %s\n", cfg.StdOut)
			os.Stdout, os.Stderr = out, out
		} else {
			err = fmt.Errorf("cannot create output file %s: %w", cfg.StdOut, err)
		}
	}

	if err == nil {
		if cfg.DevelopmentLogging {
			logcfg := zap.NewDevelopmentConfig()
			logcfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
			logger, err = logcfg.Build()
		} else {
			if cfg.RunServer {
				logcfg := zap.NewProductionConfig()
				logcfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
				logger, err = logcfg.Build()
			} else {
				logger = zap.NewNop()
			}
		}
		cfg.Logger = logger
		if err == nil {
			err = run(&cfg)
		} else {
			err = fmt.Errorf("unable to create logger: %w", err)
		}
	}

	if err != nil {
		fmt.Fprintf(stdErr, "%s\n", err)
		os.Exit(1)
	}
}
