// Package native plays clips on the host's speakers through oto. It is the
// only package that needs the platform audio libraries, so it is imported
// from the command layer alone.
package native

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/oto/v2"

	"github.com/ziadkadry99/playdeck/internal/audio"
)

const channels = 2

// wavePCM is the WAVE format tag for uncompressed integer samples.
const wavePCM = 1

var errNotPCM = errors.New("only 16-bit PCM WAV is supported")

// output is the part of an oto player a clip drives.
type output interface {
	Play()
	Pause()
	IsPlaying() bool
	UnplayedBufferSize() int
	Err() error
	Close() error
}

type device interface {
	open(r io.Reader) output
}

type otoDevice struct{ ctx *oto.Context }

func (d otoDevice) open(r io.Reader) output { return d.ctx.NewPlayer(r) }

// Backend plays 16-bit PCM WAV files under mediaDir recorded at the device
// sample rate. Mono clips are duplicated to both channels. Only one Backend
// may exist per process.
type Backend struct {
	dev        device
	mediaDir   string
	sampleRate int
}

// New opens the audio device and waits for it to become ready.
func New(sampleRate int, mediaDir string) (*Backend, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channels, oto.FormatSignedInt16LE)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready
	return &Backend{dev: otoDevice{ctx}, mediaDir: mediaDir, sampleRate: sampleRate}, nil
}

func (b *Backend) NewPlayer(id, src string) (audio.Player, error) {
	path := filepath.Join(b.mediaDir, filepath.Clean("/"+src))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading clip %s: %w", id, err)
	}
	pcm, err := decodeWAV(raw, b.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("decoding clip %s: %w", id, err)
	}
	return newPlayer(b.dev, pcm), nil
}

type player struct {
	dev device
	pcm []byte
	src *bytes.Reader
	out output
}

func newPlayer(dev device, pcm []byte) *player {
	p := &player{dev: dev, pcm: pcm}
	p.src = bytes.NewReader(pcm)
	p.out = dev.open(p.src)
	return p
}

// Play resumes a paused clip. A clip that already played to the end
// starts again from the top.
func (p *player) Play() error {
	if !p.out.IsPlaying() && p.src.Len() == 0 && p.out.UnplayedBufferSize() == 0 {
		p.rewind()
	}
	p.out.Play()
	return p.out.Err()
}

func (p *player) Pause() {
	p.out.Pause()
}

func (p *player) Stop() {
	p.out.Pause()
	p.rewind()
}

func (p *player) rewind() {
	if s, ok := p.out.(io.Seeker); ok {
		if _, err := s.Seek(0, io.SeekStart); err == nil {
			return
		}
	}
	// Players that cannot seek are replaced.
	_ = p.out.Close()
	p.src = bytes.NewReader(p.pcm)
	p.out = p.dev.open(p.src)
}

func (p *player) Close() error {
	return p.out.Close()
}

// decodeWAV returns interleaved stereo 16-bit little-endian samples.
func decodeWAV(raw []byte, wantRate int) ([]byte, error) {
	d := wav.NewDecoder(bytes.NewReader(raw))
	if !d.IsValidFile() {
		return nil, errors.New("not a RIFF/WAVE file")
	}
	if d.WavAudioFormat != wavePCM || d.BitDepth != 16 {
		return nil, errNotPCM
	}
	if int(d.SampleRate) != wantRate {
		return nil, fmt.Errorf("sample rate %d does not match device rate %d", d.SampleRate, wantRate)
	}
	if d.NumChans != 1 && d.NumChans != 2 {
		return nil, fmt.Errorf("unsupported channel count %d", d.NumChans)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}
	frames := len(buf.Data) / int(d.NumChans)
	out := make([]byte, 0, frames*channels*2)
	for i := 0; i < frames; i++ {
		left := buf.Data[i*int(d.NumChans)]
		right := left
		if d.NumChans == 2 {
			right = buf.Data[i*2+1]
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(int16(left)))
		out = binary.LittleEndian.AppendUint16(out, uint16(int16(right)))
	}
	return out, nil
}
