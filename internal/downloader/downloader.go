package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"audio-digest/internal/app/audio"
	"audio-digest/internal/app/errors"
	"audio-digest/pkg/logger"
)

// Episode is the audio reference scraped from a podcast episode page.
type Episode struct {
	Title    string
	AudioURL string
}

// Downloader fetches a podcast episode page, finds its audio and saves it
// locally so a later batch run can pick it up.
type Downloader struct {
	client *http.Client
	log    *logger.Logger
}

func New(log *logger.Logger) *Downloader {
	return &Downloader{
		client: http.DefaultClient,
		log:    log.Named("downloader"),
	}
}

// FetchEpisode downloads the audio behind an episode page URL into dir and
// returns the saved file path. Files already present with the remote's size
// are not downloaded again.
func (d *Downloader) FetchEpisode(ctx context.Context, pageURL, dir string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return "", errors.Newf("invalid episode URL: %s", pageURL)
	}

	episode, err := d.scrapeEpisode(ctx, base)
	if err != nil {
		return "", err
	}

	ext, err := audioExtension(episode.AudioURL)
	if err != nil {
		return "", err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create directory %s", absDir)
	}

	destPath := filepath.Join(absDir, sanitizeFileName(episode.Title)+ext)
	d.log.Info("downloading episode",
		logger.String("title", episode.Title),
		logger.String("dest", destPath))
	if err := d.downloadFile(ctx, episode.AudioURL, destPath); err != nil {
		return "", errors.Wrapf(err, "download failed for %s", episode.AudioURL)
	}
	return destPath, nil
}

// scrapeEpisode extracts the audio URL and title from the episode page.
// Podcast pages differ; og:audio is the common case, bare <audio> tags and
// feed enclosures the fallbacks.
func (d *Downloader) scrapeEpisode(ctx context.Context, pageURL *url.URL) (Episode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return Episode{}, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return Episode{}, errors.Wrap(err, "failed to fetch episode page")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Episode{}, errors.Newf("episode page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Episode{}, errors.Wrap(err, "failed to parse episode page")
	}

	audioRef := firstAttr(doc,
		attrQuery{`meta[property="og:audio"]`, "content"},
		attrQuery{`audio[src]`, "src"},
		attrQuery{`audio source[src]`, "src"},
		attrQuery{`enclosure[url]`, "url"},
	)
	if audioRef == "" {
		return Episode{}, errors.Newf("no audio URL found on page %s", pageURL)
	}
	audioURL, err := pageURL.Parse(audioRef)
	if err != nil {
		return Episode{}, errors.Wrapf(err, "bad audio URL %s", audioRef)
	}

	title, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = strings.TrimSuffix(path.Base(audioURL.Path), path.Ext(audioURL.Path))
	}

	return Episode{Title: title, AudioURL: audioURL.String()}, nil
}

type attrQuery struct {
	selector string
	attr     string
}

func firstAttr(doc *goquery.Document, queries ...attrQuery) string {
	for _, q := range queries {
		if value, ok := doc.Find(q.selector).First().Attr(q.attr); ok && value != "" {
			return value
		}
	}
	return ""
}

// audioExtension validates that the URL points at a supported audio format.
func audioExtension(audioURL string) (string, error) {
	u, err := url.Parse(audioURL)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" || !audio.IsAudioFile("episode"+ext) {
		return "", errors.Newf("unsupported audio format for url %s", audioURL)
	}
	return ext, nil
}

var fileNameSanitizer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
	"\"", "-", "<", "-", ">", "-", "|", "-",
)

func sanitizeFileName(name string) string {
	return strings.TrimSpace(fileNameSanitizer.Replace(name))
}

// downloadFile saves url to destPath, skipping the transfer when a local
// copy with the remote's exact size already exists.
func (d *Downloader) downloadFile(ctx context.Context, audioURL, destPath string) error {
	if info, err := os.Stat(destPath); err == nil {
		remoteSize, err := d.remoteSize(ctx, audioURL)
		if err == nil && remoteSize == info.Size() {
			d.log.Info("local copy matches remote size, skipping download",
				logger.String("path", destPath))
			return nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Newf("audio request returned status %d", resp.StatusCode)
	}

	// Download into a temp name first so an interrupted transfer never
	// looks like a complete episode.
	tmpPath := destPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, destPath)
}

func (d *Downloader) remoteSize(ctx context.Context, audioURL string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, audioURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HEAD returned status %d", resp.StatusCode)
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("remote size unknown")
	}
	return resp.ContentLength, nil
}
