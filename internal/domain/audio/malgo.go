package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	platformerrors "mars-assistant-go/internal/platform/errors"
)

func init() {
	Register("malgo", func(config Config) (Source, error) {
		return NewCaptureDevice(config)
	})
}

// CaptureDevice reads from the default system microphone via miniaudio.
// The device callback delivers raw bytes on its own thread; frames are
// assembled and handed over through a buffered channel so ReadFrame stays
// a plain blocking call.
type CaptureDevice struct {
	config Config

	ctx    *malgo.AllocatedContext
	device *malgo.Device

	frames  chan Frame
	pending []int16

	closeOnce sync.Once
	closed    chan struct{}
}

// NewCaptureDevice opens the default capture device in 16-bit mono.
func NewCaptureDevice(config Config) (*CaptureDevice, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindAudio, "init", "audio context init failed", err)
	}

	d := &CaptureDevice{
		config: config,
		ctx:    mctx,
		frames: make(chan Frame, 64),
		closed: make(chan struct{}),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(config.Channels)
	deviceConfig.SampleRate = uint32(config.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: d.onRecvFrames,
	}

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = mctx.Uninit()
		mctx.Free()
		return nil, platformerrors.Wrap(platformerrors.KindAudio, "init", "no capture device available", err)
	}
	d.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = mctx.Uninit()
		mctx.Free()
		return nil, platformerrors.Wrap(platformerrors.KindAudio, "start", "capture device start failed", err)
	}

	return d, nil
}

// onRecvFrames runs on the audio thread. It slices the incoming byte
// stream into fixed-size frames; a full channel drops the oldest frame
// rather than blocking the device.
func (d *CaptureDevice) onRecvFrames(_, input []byte, frameCount uint32) {
	_ = frameCount
	for i := 0; i+1 < len(input); i += 2 {
		d.pending = append(d.pending, int16(binary.LittleEndian.Uint16(input[i:])))
	}

	for len(d.pending) >= d.config.FrameSize {
		frame := make(Frame, d.config.FrameSize)
		copy(frame, d.pending[:d.config.FrameSize])
		d.pending = d.pending[d.config.FrameSize:]

		select {
		case <-d.closed:
			return
		case d.frames <- frame:
		default:
			select {
			case <-d.frames:
			default:
			}
			select {
			case d.frames <- frame:
			default:
			}
		}
	}
}

// ReadFrame blocks until the next captured frame is available.
func (d *CaptureDevice) ReadFrame(ctx context.Context) (Frame, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.closed:
		return nil, fmt.Errorf("capture device closed")
	case frame := <-d.frames:
		return frame, nil
	}
}

// Close stops and releases the device.
func (d *CaptureDevice) Close() error {
	d.closeOnce.Do(func() {
		close(d.closed)
		if d.device != nil {
			d.device.Uninit()
		}
		if d.ctx != nil {
			_ = d.ctx.Uninit()
			d.ctx.Free()
		}
	})
	return nil
}
