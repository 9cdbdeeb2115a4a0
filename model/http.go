package model

import "time"

type TranscribeResponse struct {
	Id     string `json:"id"`
	Voices int    `json:"voices"`
	Notes  int    `json:"notes"`
	Frames int    `json:"frames"`
	Cached bool   `json:"cached"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

type TranscriptionRecord struct {
	Id        string    `dynamodbav:"PK" json:"id"`
	Source    string    `dynamodbav:"Source" json:"source"`
	Voices    int       `dynamodbav:"Voices" json:"voices"`
	Notes     int       `dynamodbav:"Notes" json:"notes"`
	Frames    int       `dynamodbav:"Frames" json:"frames"`
	Peaks     int       `dynamodbav:"Peaks" json:"n_peaks"`
	KeyDiff   float64   `dynamodbav:"KeyDiff" json:"keydiff_threshold"`
	CreatedAt time.Time `dynamodbav:"CreatedAt" json:"created_at"`
}
