package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/wav2midi/audio"
	"github.com/jsphweid/wav2midi/cache"
	"github.com/jsphweid/wav2midi/config"
	"github.com/jsphweid/wav2midi/constants"
	"github.com/jsphweid/wav2midi/db"
	"github.com/jsphweid/wav2midi/model"
	"github.com/jsphweid/wav2midi/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// uploads above this are rejected
const maxUploadBytes = 256 << 20

var port int

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves transcriptions over HTTP",
	Long: `Serves transcriptions over HTTP.

POST /transcribe with a wav body (query: peaks, keydiff) returns an id,
GET /transcriptions/{id} returns the MIDI file and
GET /transcriptions/{id}/info its catalog record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

type Service struct {
	OutDir  string
	Cache   *cache.Cache
	Catalog *db.Catalog

	// 0 = maxUploadBytes
	MaxUpload int64
}

func serve() error {
	outDir := constants.GetOutDir()
	for _, dir := range []string{outDir, constants.GetCacheDir()} {
		if err := util.EnsureDir(dir); err != nil {
			return errors.Wrap(err, "creating output dirs")
		}
	}
	c, err := cache.Open(constants.GetCacheDir())
	if err != nil {
		return err
	}
	defer c.Close()
	cat, err := db.CatalogFromEnv()
	if err != nil {
		return err
	}

	s := &Service{OutDir: outDir, Cache: c, Catalog: cat}
	log.Printf("Listening on :%v, writing to %v", port, outDir)
	return http.ListenAndServe(fmt.Sprintf(":%v", port), s.Router())
}

func (s *Service) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/transcribe", s.HandleTranscribe).Methods("POST")
	router.HandleFunc("/transcriptions/{id}", s.HandleGet).Methods("GET")
	router.HandleFunc("/transcriptions/{id}/info", s.HandleInfo).Methods("GET")
	return cors.Default().Handler(router)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

func queryConfig(r *http.Request) (config.Config, error) {
	cfg := config.Default()
	q := r.URL.Query()
	if v := q.Get("peaks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrap(config.ErrInvalidConfig, "peaks must be an integer")
		}
		cfg.Peaks = n
	}
	if v := q.Get("keydiff"); v != "" {
		k, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, errors.Wrap(config.ErrInvalidConfig, "keydiff must be a number")
		}
		cfg.KeyDiff = k
	}
	return cfg, cfg.Validate()
}

func (s *Service) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	cfg, err := queryConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	limit := s.MaxUpload
	if limit <= 0 {
		limit = maxUploadBytes
	}
	wav, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
		} else {
			writeError(w, http.StatusBadRequest, errors.Wrap(err, "reading body"))
		}
		return
	}

	res, err := transcribeWav(r.Context(), wav, cfg, s.Cache, nil)
	switch {
	case errors.Is(err, audio.ErrInvalidWav):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		log.Printf("transcription failed: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	id := uuid.New().String()
	if err := os.WriteFile(s.path(id), res.Midi, 0666); err != nil {
		log.Printf("could not store %v: %v", id, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.Catalog.PutTranscription(record(id, "upload", cfg, res.Summary)); err != nil {
		log.Printf("could not catalog %v: %v", id, err)
	}
	resp := model.TranscribeResponse{
		Id:     id,
		Voices: res.Summary.Voices,
		Notes:  res.Summary.Notes,
		Frames: res.Summary.Frames,
		Cached: res.Cached,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func parseId(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, errors.Errorf("bad id %q", id))
		return "", false
	}
	return id, true
}

func (s *Service) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseId(w, r)
	if !ok {
		return
	}
	path := s.path(id)
	if !util.FileExists(path) {
		writeError(w, http.StatusNotFound, errors.Errorf("no transcription %v", id))
		return
	}
	w.Header().Set("Content-Type", "audio/midi")
	http.ServeFile(w, r, path)
}

func (s *Service) HandleInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseId(w, r)
	if !ok {
		return
	}
	if s.Catalog == nil {
		writeError(w, http.StatusNotFound, errors.New("catalog is disabled"))
		return
	}
	records, err := s.Catalog.GetTranscriptions([]string{id})
	if err != nil {
		log.Printf("catalog lookup of %v failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	rec, found := records[id]
	if !found {
		writeError(w, http.StatusNotFound, errors.Errorf("no catalog record for %v", id))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

func (s *Service) path(id string) string {
	return filepath.Join(s.OutDir, id+".mid")
}
