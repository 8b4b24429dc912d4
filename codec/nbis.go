package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/veduco/EFTSuite-Public/errs"
	"github.com/veduco/EFTSuite-Public/logging"
)

// Default NBIS tool names, resolved through PATH.
const (
	toolCWSQ    = "cwsq"
	toolDWSQ    = "dwsq"
	toolNFIQ    = "nfiq"
	toolChkAN2K = "chkan2k"
	toolOpenJP2 = "opj_compress"
)

// NBIS is the process-exec backend: each call round-trips through temporary
// files in the adapter's working directory and invokes the corresponding
// NBIS (or OpenJPEG) binary.
//
// The working directory should be the owning operation's scratch directory;
// the adapter never writes outside it.
type NBIS struct {
	dir    string
	logger *logging.Logger
	serial int

	// Tool names, overridable for packaging layouts that rename them.
	CWSQ    string
	DWSQ    string
	NFIQ    string
	ChkAN2K string
	OpenJP2 string
}

var _ Adapter = (*NBIS)(nil)

// NewNBIS creates an adapter that stages its temporary files under dir.
func NewNBIS(dir string, logger *logging.Logger) *NBIS {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &NBIS{
		dir:     dir,
		logger:  logger,
		CWSQ:    toolCWSQ,
		DWSQ:    toolDWSQ,
		NFIQ:    toolNFIQ,
		ChkAN2K: toolChkAN2K,
		OpenJP2: toolOpenJP2,
	}
}

// run executes one tool, capturing output. A missing binary is reported
// distinctly so callers can degrade (validation) instead of failing.
func (n *NBIS) run(ctx context.Context, cwd string, name string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = cwd

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr != nil {
		if errors.Is(runErr, exec.ErrNotFound) {
			return stdout, stderr, fmt.Errorf("%w: command not found: %s", errs.ErrCodecFailure, name)
		}
		if ctx.Err() != nil {
			return stdout, stderr, fmt.Errorf("%w: %s interrupted", errs.ErrCancelled, name)
		}

		return stdout, stderr, fmt.Errorf("%w: %s: %v: %s", errs.ErrCodecFailure, name, runErr, strings.TrimSpace(stderr))
	}

	return stdout, stderr, nil
}

// stage writes data to a uniquely named file inside the adapter directory.
func (n *NBIS) stage(prefix, ext string, data []byte) (string, error) {
	n.serial++
	path := filepath.Join(n.dir, fmt.Sprintf("%s_%d.%s", prefix, n.serial, ext))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: staging %s: %v", errs.ErrCodecFailure, path, err)
	}

	return path, nil
}

// EncodeWSQ shells out to cwsq:
//
//	cwsq <bitrate> wsq <outfile> -r <infile> <w> <h> <depth> <ppi>
func (n *NBIS) EncodeWSQ(ctx context.Context, raw []byte, width, height, bitDepth, ppi int, bitrate float64) ([]byte, error) {
	rawPath, err := n.stage("wsq_in", "raw", raw)
	if err != nil {
		return nil, err
	}
	defer os.Remove(rawPath)

	wsqPath := strings.TrimSuffix(rawPath, ".raw") + ".wsq"
	defer os.Remove(wsqPath)

	_, _, err = n.run(ctx, n.dir, n.CWSQ,
		strconv.FormatFloat(bitrate, 'f', -1, 64),
		"wsq",
		wsqPath,
		"-r",
		rawPath,
		strconv.Itoa(width),
		strconv.Itoa(height),
		strconv.Itoa(bitDepth),
		strconv.Itoa(ppi),
	)
	if err != nil {
		return nil, err
	}

	out, err := os.ReadFile(wsqPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cwsq produced no output: %v", errs.ErrCodecFailure, err)
	}
	n.logger.Debug("cwsq encoded", "bitrate", bitrate, "in", len(raw), "out", len(out))

	return out, nil
}

// DecodeWSQ shells out to dwsq. Tool versions differ in argument order, so
// the known invocations are tried until the raw plane appears.
func (n *NBIS) DecodeWSQ(ctx context.Context, data []byte) ([]byte, int, int, int, error) {
	wsqPath, err := n.stage("wsq_out", "wsq", data)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	defer os.Remove(wsqPath)

	rawPath := strings.TrimSuffix(wsqPath, ".wsq") + ".raw"
	defer os.Remove(rawPath)
	defer os.Remove(wsqPath + ".raw")

	attempts := [][]string{
		{"raw", filepath.Base(wsqPath)},
		{filepath.Base(wsqPath)},
		{"-raw", filepath.Base(wsqPath)},
	}

	var lastErr error
	for _, args := range attempts {
		if _, _, lastErr = n.run(ctx, n.dir, n.DWSQ, args...); errors.Is(lastErr, errs.ErrCancelled) {
			return nil, 0, 0, 0, lastErr
		}

		path := rawPath
		if _, statErr := os.Stat(path); statErr != nil {
			path = wsqPath + ".raw"
			if _, statErr = os.Stat(path); statErr != nil {
				continue
			}
		}

		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, 0, 0, 0, fmt.Errorf("%w: reading dwsq output: %v", errs.ErrCodecFailure, readErr)
		}

		width, height, depth := n.readNISTCOM(path)

		return raw, width, height, depth, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: dwsq produced no raw output", errs.ErrCodecFailure)
	}

	return nil, 0, 0, 0, lastErr
}

// readNISTCOM recovers image geometry from the NISTCOM sidecar dwsq writes
// next to its output when available. Zero values mean the caller must use
// record metadata instead.
func (n *NBIS) readNISTCOM(rawPath string) (width, height, depth int) {
	data, err := os.ReadFile(strings.TrimSuffix(rawPath, ".raw") + ".ncm")
	if err != nil {
		return 0, 0, 0
	}

	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		value, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		switch fields[0] {
		case "PIX_WIDTH":
			width = value
		case "PIX_HEIGHT":
			height = value
		case "PIX_DEPTH":
			depth = value
		}
	}

	return width, height, depth
}

// EncodeJP2 shells out to opj_compress with a PNG input.
func (n *NBIS) EncodeJP2(ctx context.Context, png []byte, ratio int) ([]byte, error) {
	pngPath, err := n.stage("jp2_in", "png", png)
	if err != nil {
		return nil, err
	}
	defer os.Remove(pngPath)

	jp2Path := strings.TrimSuffix(pngPath, ".png") + ".jp2"
	defer os.Remove(jp2Path)

	_, _, err = n.run(ctx, n.dir, n.OpenJP2,
		"-i", pngPath,
		"-o", jp2Path,
		"-r", strconv.Itoa(ratio),
		"-n", "2",
	)
	if err != nil {
		return nil, err
	}

	out, err := os.ReadFile(jp2Path)
	if err != nil {
		return nil, fmt.Errorf("%w: opj_compress produced no output: %v", errs.ErrCodecFailure, err)
	}

	return out, nil
}

// ScoreNFIQ shells out to nfiq, which prints the 1-5 score on stdout. The
// plane is staged as a PGM so the tool can recover its geometry.
func (n *NBIS) ScoreNFIQ(ctx context.Context, raw []byte, width, height, _ int) (int, error) {
	pgm := append([]byte(fmt.Sprintf("P5\n%d %d\n255\n", width, height)), raw...)
	imgPath, err := n.stage("nfiq_in", "pgm", pgm)
	if err != nil {
		return 0, err
	}
	defer os.Remove(imgPath)

	stdout, _, err := n.run(ctx, n.dir, n.NFIQ, imgPath)
	if err != nil {
		return 0, err
	}

	score, err := strconv.Atoi(strings.TrimSpace(stdout))
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable nfiq output %q", errs.ErrCodecFailure, strings.TrimSpace(stdout))
	}

	return score, nil
}

// Validate shells out to chkan2k. A missing validator is reported as ok with
// an explanatory message; structural rejections return the tool's stderr.
func (n *NBIS) Validate(ctx context.Context, file []byte) (bool, string) {
	eftPath, err := n.stage("chk_in", "eft", file)
	if err != nil {
		return false, err.Error()
	}
	defer os.Remove(eftPath)

	_, stderr, err := n.run(ctx, n.dir, n.ChkAN2K, eftPath)
	if err != nil {
		if strings.Contains(err.Error(), "command not found") {
			return true, "validation skipped: chkan2k not installed"
		}

		return false, strings.TrimSpace(stderr)
	}

	return true, "file is valid"
}
