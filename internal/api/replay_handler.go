package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"demoreplay/internal/codec"
	"demoreplay/internal/db"
	"demoreplay/internal/demo"
	"demoreplay/internal/logging"
	"demoreplay/internal/processor"
	"demoreplay/internal/replay"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ParseFunc turns a demo stream into a replay document.
type ParseFunc func(ctx context.Context, r io.Reader, opts demo.Options) (*replay.Document, error)

// Catalog reads stored replays.
type Catalog interface {
	GetDocument(ctx context.Context, id uuid.UUID) ([]byte, error)
	ListRecent(ctx context.Context, limit int) ([]db.ReplaySummary, error)
	ReplayExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Enqueuer hands replay jobs to the worker queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, queueName string, payload []byte) error
}

// Options configure a ReplayHandler.
type Options struct {
	TickSkip       int
	MaxUploadBytes int64
	// UploadDir receives demos accepted for asynchronous processing.
	UploadDir string
	Queue     string
}

// ReplayHandler serves replay uploads and stored documents.
// Catalog, store and jobs may be nil; the endpoints needing them answer 503.
type ReplayHandler struct {
	parse   ParseFunc
	catalog Catalog
	store   processor.Store
	jobs    Enqueuer
	opts    Options
	logger  logging.Interface
}

// NewReplayHandler creates a ReplayHandler.
func NewReplayHandler(parse ParseFunc, catalog Catalog, store processor.Store, jobs Enqueuer, opts Options) *ReplayHandler {
	return &ReplayHandler{
		parse:   parse,
		catalog: catalog,
		store:   store,
		jobs:    jobs,
		opts:    opts,
		logger:  logging.Logger().With("component", "api"),
	}
}

// summaryView is the JSON shape of a stored replay listing.
type summaryView struct {
	ReplayID       string    `json:"replay_id"`
	MapName        string    `json:"map_name"`
	CTScore        int       `json:"ct_score"`
	TScore         int       `json:"t_score"`
	MatchStartTick int       `json:"match_start_tick"`
	FrameCount     int       `json:"frame_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Upload parses a demo sent as multipart field "file".
// POST /replays               -> 200 with the document
// POST /replays?store=true    -> 201 {"replay_id"} after persisting it
// POST /replays?async=true    -> 202 {"replay_id"} after queueing it for the worker
func (h *ReplayHandler) Upload(c *gin.Context) {
	if h.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	}

	fh, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit)})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}

	if c.Query("async") == "true" {
		h.enqueue(c, fh.Filename, func(dst string) error { return c.SaveUploadedFile(fh, dst) })
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rc, err := demo.NewReader(f, fh.Filename)
	if err != nil {
		f.Close()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer rc.Close()

	start := time.Now()
	doc, err := h.parse(c.Request.Context(), rc, demo.Options{TickSkip: h.opts.TickSkip})
	if err != nil {
		h.logger.Warnf("parse %s failed: %v", fh.Filename, err)
		status := http.StatusInternalServerError
		if errors.Is(err, demo.ErrDecode) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	h.logger.Infof("parsed %s in %v: %d frames", fh.Filename, time.Since(start), len(doc.Frames))

	if c.Query("store") == "true" {
		h.persist(c, doc)
		return
	}

	data, err := replay.Encode(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (h *ReplayHandler) persist(c *gin.Context, doc *replay.Document) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage is not configured"})
		return
	}

	id := uuid.New()
	stored, err := processor.Pack(id, doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.Write(c.Request.Context(), stored); err != nil {
		h.logger.Errorf("store replay %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store replay"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"replay_id": id.String()})
}

func (h *ReplayHandler) enqueue(c *gin.Context, filename string, save func(dst string) error) {
	if h.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queue is not configured"})
		return
	}

	id := uuid.New()
	name := id.String() + ".dem"
	if strings.HasSuffix(filename, demo.CompressedSuffix) {
		name += demo.CompressedSuffix
	}
	dst := filepath.Join(h.opts.UploadDir, name)
	if err := save(dst); err != nil {
		h.logger.Errorf("save upload %s: %v", dst, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
		return
	}

	payload, err := json.Marshal(processor.JobPayload{ReplayID: id.String(), DemoPath: dst})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.jobs.Enqueue(c.Request.Context(), h.opts.Queue, payload); err != nil {
		h.logger.Errorf("enqueue replay %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue replay"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"replay_id": id.String()})
}

// Get returns a stored document. Clients accepting zstd get the stored bytes as-is.
// GET /replays/:id
func (h *ReplayHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid replay id"})
		return
	}
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage is not configured"})
		return
	}

	compressed, err := h.catalog.GetDocument(c.Request.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("replay %s not found", id)})
		return
	}
	if err != nil {
		h.logger.Errorf("get replay %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if strings.Contains(c.GetHeader("Accept-Encoding"), "zstd") {
		c.Header("Content-Encoding", "zstd")
		c.Data(http.StatusOK, "application/json", compressed)
		return
	}

	data, err := codec.Decompress(compressed)
	if err != nil {
		h.logger.Errorf("decompress replay %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// Head reports whether a replay is stored without transferring it.
// HEAD /replays/:id
func (h *ReplayHandler) Head(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if h.catalog == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	exists, err := h.catalog.ReplayExists(c.Request.Context(), id)
	if err != nil {
		h.logger.Errorf("check replay %s: %v", id, err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// List returns the newest stored replays.
// GET /replays?limit=20
func (h *ReplayHandler) List(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage is not configured"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	summaries, err := h.catalog.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorf("list replays: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]summaryView, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryView{
			ReplayID:       s.ID.String(),
			MapName:        s.MapName,
			CTScore:        s.CTScore,
			TScore:         s.TScore,
			MatchStartTick: s.MatchStartTick,
			FrameCount:     s.FrameCount,
			CreatedAt:      s.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"replays": out})
}
