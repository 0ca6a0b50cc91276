package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"audio-digest/internal/app/model"
	"audio-digest/pkg/executor"
	"audio-digest/pkg/logger"
)

// Recognized audio input extensions.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".wma":  true,
}

// ffmpeg muxer names for extensions that are not muxer names themselves.
var formatOverrides = map[string]string{
	".m4a": "mp4",
	".aac": "adts",
}

// Processor fronts ffmpeg/ffprobe. All invocations go through the executor
// so callers can be tested without the binaries installed.
type Processor struct {
	exec executor.Executor
	log  *logger.Logger
}

func NewProcessor(exec executor.Executor, log *logger.Logger) *Processor {
	return &Processor{exec: exec, log: log.Named("audio")}
}

// FFmpegAvailable reports whether both ffmpeg and ffprobe are on PATH.
func FFmpegAvailable() bool {
	return executor.Available("ffmpeg") && executor.Available("ffprobe")
}

// IsAudioFile reports whether the file name carries a recognized audio
// extension.
func IsAudioFile(name string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(name))]
}

// ScanDir lists the audio files directly inside dir, name-sorted so batch
// order is deterministic across runs.
func ScanDir(dir string) ([]model.FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var fileInfos []model.FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsAudioFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		fullPath, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		fileInfos = append(fileInfos, model.FileInfo{
			FullPath: fullPath,
			ModTime:  info.ModTime(),
			Name:     entry.Name(),
			Size:     info.Size(),
		})
	}

	sort.Slice(fileInfos, func(i, j int) bool {
		return fileInfos[i].Name < fileInfos[j].Name
	})

	return fileInfos, nil
}

// Duration returns the stream duration reported by ffprobe.
func (p *Processor) Duration(ctx context.Context, filePath string) (time.Duration, error) {
	output, err := p.exec.Execute(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath)
	if err != nil {
		return 0, err
	}
	durationFloat, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe duration output %q: %w", strings.TrimSpace(output), err)
	}
	return time.Duration(durationFloat * float64(time.Second)), nil
}

// Probe returns the stream/format description of the file.
func (p *Processor) Probe(ctx context.Context, filePath string) (model.FFProbeOutput, error) {
	var probeOutput model.FFProbeOutput
	output, err := p.exec.Execute(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams", "-show_format",
		filePath)
	if err != nil {
		return probeOutput, err
	}
	if err := json.Unmarshal([]byte(output), &probeOutput); err != nil {
		return probeOutput, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return probeOutput, nil
}

// Extract writes the sub-clip described by c into destDir and returns its
// path. The clip is decoded and re-encoded (seek after the input flag) so
// cut points land exactly on the planned boundaries.
func (p *Processor) Extract(ctx context.Context, src string, c Chunk, destDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(src))
	dest := filepath.Join(destDir, fmt.Sprintf("chunk_%03d%s", c.Index, ext))

	args := []string{
		"-v", "error",
		"-y",
		"-i", src,
		"-ss", formatSeconds(c.Start),
		"-t", formatSeconds(c.Length),
		"-vn",
	}
	if muxer, ok := formatOverrides[ext]; ok {
		args = append(args, "-f", muxer)
	}
	args = append(args, dest)

	p.log.Debug("extracting chunk",
		logger.String("file", filepath.Base(src)),
		logger.Int("index", c.Index),
		logger.Duration("start", c.Start),
		logger.Duration("length", c.Length))

	if _, err := p.exec.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("FFmpeg chunk extraction failed: %w", err)
	}
	return dest, nil
}

// Is16kHzMonoWav reports whether the file is already in the input format the
// local inference engine expects.
func (p *Processor) Is16kHzMonoWav(ctx context.Context, filePath string) (bool, error) {
	probeOutput, err := p.Probe(ctx, filePath)
	if err != nil {
		return false, err
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" &&
			stream.SampleRate == 16000 && stream.Channels == 1 {
			return true, nil
		}
	}
	return false, nil
}

// ConvertTo16kHzWav transcodes the input to 16 kHz mono PCM WAV at dest.
func (p *Processor) ConvertTo16kHzWav(ctx context.Context, src, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		p.log.Info("16kHz WAV already exists, skipping conversion",
			logger.String("file", filepath.Base(src)))
		return nil
	}

	p.log.Info("converting to 16kHz wav", logger.String("file", filepath.Base(src)))

	_, err := p.exec.Execute(ctx, "ffmpeg",
		"-v", "error",
		"-y",
		"-i", src,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		dest)
	if err != nil {
		return fmt.Errorf("FFmpeg error: %w", err)
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
