package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ActorsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "vesta_actors_created_total",
	Help: "Number of actors added to the directory.",
})
