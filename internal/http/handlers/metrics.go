package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	moodboardUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tribeserver_moodboard_uploads_total",
		Help: "Moodboard upload requests by outcome.",
	}, []string{"outcome"})

	imageGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tribeserver_image_generations_total",
		Help: "Image generation requests by outcome.",
	}, []string{"outcome"})
)
