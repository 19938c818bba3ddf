package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/ayusman/ishara/internal/hand"
	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// TestHelperProcess stands in for the Python landmark service. It is only
// active when started by helperDetector.
func TestHelperProcess(t *testing.T) {
	mode := os.Getenv("ISHARA_HELPER_MODE")
	if mode == "" {
		return
	}
	defer os.Exit(0)

	if mode == "crash" {
		os.Exit(3)
	}

	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	for {
		var size uint32
		if err := binary.Read(in, binary.BigEndian, &size); err != nil {
			return
		}
		if _, err := io.CopyN(io.Discard, in, int64(size)); err != nil {
			return
		}

		var resp response
		switch mode {
		case "hands":
			full := jsonHand{Handedness: "Right", Score: 0.9}
			for i := 0; i < hand.NumLandmarks; i++ {
				full.Points = append(full.Points, jsonPoint{X: float64(i) / 100, Y: 0.5})
			}
			short := jsonHand{Handedness: "Left", Score: 0.6, Points: full.Points[:19]}
			resp.Hands = []jsonHand{full, short}
		case "error":
			resp.Error = "could not decode frame"
		}
		b, _ := json.Marshal(resp)
		fmt.Fprintf(out, "%s\n", b)
		out.Flush()
	}
}

func helperDetector(t *testing.T, mode string) *MediaPipeDetector {
	script := filepath.Join(t.TempDir(), scriptName)
	require.NoError(t, os.WriteFile(script, []byte("# stub\n"), 0o644))

	d, err := NewMediaPipeDetector(Config{Script: script, MaxHands: 2}, logs.NewTestingLog(t))
	require.NoError(t, err)
	d.newCmd = func() *exec.Cmd {
		cmd := exec.Command(os.Args[0], "-test.run=^TestHelperProcess$")
		cmd.Env = append(os.Environ(), "ISHARA_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func testFrame(t *testing.T) *gocv.Mat {
	mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })
	return &mat
}

func TestMediaPipeDetector_Detect(t *testing.T) {
	d := helperDetector(t, "hands")
	frame := testFrame(t)

	for i := 0; i < 3; i++ {
		hands, err := d.Detect(frame)
		require.NoError(t, err)
		require.Len(t, hands, 2)

		require.NoError(t, hands[0].Validate())
		require.Equal(t, "Right", hands[0].Handedness)
		require.Equal(t, 0.9, hands[0].Score)
		require.InDelta(t, 0.20, hands[0].At(hand.PinkyTip).X, 1e-9)

		require.ErrorIs(t, hands[1].Validate(), hand.ErrInvalidObservation)
	}

	require.NoError(t, d.Close())
}

func TestMediaPipeDetector_ServiceError(t *testing.T) {
	d := helperDetector(t, "error")

	_, err := d.Detect(testFrame(t))
	require.ErrorIs(t, err, ErrProviderFailure)
	require.Contains(t, err.Error(), "could not decode frame")
}

func TestMediaPipeDetector_ServiceCrash(t *testing.T) {
	d := helperDetector(t, "crash")

	_, err := d.Detect(testFrame(t))
	require.ErrorIs(t, err, ErrProviderFailure)
	require.False(t, d.started, "a broken helper must be torn down")
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	_, err := NewMediaPipeDetector(Config{Script: filepath.Join(t.TempDir(), "nope.py")}, logs.NewTestingLog(t))
	require.ErrorIs(t, err, ErrProviderFailure)
}

func TestMediaPipeDetector_CommandArgs(t *testing.T) {
	d := helperDetector(t, "hands")
	d.python = "/usr/bin/python3"
	d.config.MinConfidence = 0.7
	d.config.MinTrackingConf = 0.25

	cmd := d.command()
	require.Equal(t, []string{
		"/usr/bin/python3", d.Script(),
		"--max-hands", "2",
		"--min-detection-confidence", "0.7",
		"--min-tracking-confidence", "0.25",
	}, cmd.Args)
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    int
		wantErr bool
	}{
		{"no hands", `{"hands":[]}`, 0, false},
		{"missing hands", `{}`, 0, false},
		{"one hand", `{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Left","score":0.8}]}`, 1, false},
		{"service error", `{"error":"boom"}`, 0, true},
		{"garbage", `not json`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := parseResponse([]byte(tt.line))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrProviderFailure)
				return
			}
			require.NoError(t, err)
			require.Len(t, hands, tt.want)
		})
	}
}

func TestJSONHand_ToObservation(t *testing.T) {
	h := jsonHand{
		Handedness: "Left",
		Score:      0.75,
		Points:     []jsonPoint{{X: 0.1, Y: 0.2, Z: -0.1}, {X: 0.3, Y: 0.4}},
	}

	obs := h.toObservation()
	require.Equal(t, "Left", obs.Handedness)
	require.Equal(t, 0.75, obs.Score)
	require.Equal(t, []hand.Landmark{
		{ID: 0, X: 0.1, Y: 0.2, Z: -0.1},
		{ID: 1, X: 0.3, Y: 0.4},
	}, obs.Landmarks)
	require.ErrorIs(t, obs.Validate(), hand.ErrInvalidObservation)
}

func TestMock(t *testing.T) {
	m := NewMock()
	frame := testFrame(t)

	hands, err := m.Detect(frame)
	require.NoError(t, err)
	require.Empty(t, hands)

	m.SetHands(hand.Victory(), hand.ThumbsUp())
	hands, err = m.Detect(frame)
	require.NoError(t, err)
	require.Len(t, hands, 2)

	boom := fmt.Errorf("%w: helper gone", ErrProviderFailure)
	m.SetError(boom)
	_, err = m.Detect(frame)
	require.True(t, errors.Is(err, ErrProviderFailure))

	require.Equal(t, 3, m.Calls())
	require.NoError(t, m.Close())
	require.True(t, m.Closed())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 2, cfg.MaxHands)
	require.Equal(t, 0.5, cfg.MinConfidence)
	require.Equal(t, 0.5, cfg.MinTrackingConf)
}

func TestProvidersImplementInterface(t *testing.T) {
	var _ Provider = (*MediaPipeDetector)(nil)
	var _ Provider = (*Mock)(nil)
}
