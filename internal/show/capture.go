package show

import (
	"fmt"
	"sync"

	pa "github.com/gordonklaus/portaudio"
)

// MicSource captures the default input device through portaudio and
// feeds the analyzer one FrameSize block at a time. Any failure to open
// the device surfaces as ErrCaptureDenied before a single frame flows.
type MicSource struct {
	stream *pa.Stream
	buf    []float32
	an     *analyzer
	frames chan SpectrumFrame
	done   chan struct{}
	once   sync.Once
}

func NewMicSource() *MicSource {
	return &MicSource{
		buf:    make([]float32, FrameSize),
		an:     newAnalyzer(),
		frames: make(chan SpectrumFrame, 4),
		done:   make(chan struct{}),
	}
}

func (m *MicSource) Frames() <-chan SpectrumFrame { return m.frames }

// Start opens the capture stream and launches the read loop.
func (m *MicSource) Start() error {
	if err := pa.Initialize(); err != nil {
		return fmt.Errorf("%w: portaudio init: %v", ErrCaptureDenied, err)
	}
	stream, err := pa.OpenDefaultStream(1, 0, float64(SampleRate), FrameSize, m.buf)
	if err != nil {
		pa.Terminate()
		return fmt.Errorf("%w: open input stream: %v", ErrCaptureDenied, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		pa.Terminate()
		return fmt.Errorf("%w: start input stream: %v", ErrCaptureDenied, err)
	}
	m.stream = stream

	go m.readLoop()
	return nil
}

func (m *MicSource) readLoop() {
	defer close(m.frames)
	samples := make([]float64, FrameSize)
	frameMs := 1000.0 * float64(FrameSize) / float64(SampleRate)
	elapsed := 0.0
	for {
		select {
		case <-m.done:
			return
		default:
		}
		if err := m.stream.Read(); err != nil {
			// Overflows are routine when a render hiccup delays us;
			// anything else ends the stream.
			if err == pa.InputOverflowed {
				continue
			}
			return
		}
		for i, s := range m.buf {
			samples[i] = float64(s)
		}
		elapsed += frameMs
		select {
		case m.frames <- m.an.analyze(samples, elapsed):
		case <-m.done:
			return
		}
	}
}

// Close stops capture and releases the device.
func (m *MicSource) Close() error {
	var err error
	m.once.Do(func() {
		close(m.done)
		if m.stream != nil {
			m.stream.Stop()
			m.stream.Close()
		}
		err = pa.Terminate()
	})
	return err
}
