package ui

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"

	"resframe/app"
	"resframe/domain/core"
	"resframe/domain/run"
	"resframe/domain/timeseries"
	"resframe/internal/aggregate"
	"resframe/internal/logging"
	"resframe/internal/report"

	"github.com/gin-gonic/gin"
)

// Server exposes a loaded result set over HTTP: network browsing, series
// profiles, aggregation and HTML run reports.
type Server struct {
	router  *gin.Engine
	service *app.ResultService
	log     *logging.Logger

	mu   sync.RWMutex
	set  *app.ResultSet
	runs map[core.RunID]*run.Run
}

// NewServer creates the server around a service and an already loaded
// result set.
func NewServer(service *app.ResultService, set *app.ResultSet, log *logging.Logger) *Server {
	if log == nil {
		log = logging.NewFromEnv()
	}
	s := &Server{
		router:  gin.Default(),
		service: service,
		log:     log,
		set:     set,
		runs:    make(map[core.RunID]*run.Run),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/network", s.handleNetwork)
	s.router.GET("/network/:group", s.handleGroup)
	s.router.GET("/profiles", s.handleProfiles)
	s.router.GET("/series", s.handleSeries)
	s.router.POST("/aggregate", s.handleAggregate)
	s.router.GET("/runs/:id/report", s.handleReport)
}

// Run starts the server on the given port.
func (s *Server) Run(port string) error {
	s.log.Info("result server listening on :%s", port)
	return s.router.Run(":" + port)
}

func (s *Server) handleNetwork(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := s.set.Network.Counts()
	payload := gin.H{
		"source": s.set.Source,
		"steps":  s.set.Frame.Len(),
		"series": s.set.Frame.NumColumns(),
	}
	for group, count := range counts {
		payload[string(group)] = count
	}
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleGroup(c *gin.Context) {
	group, err := timeseries.ParseGroup(c.Param("group"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	net := s.set.Network
	var names []string
	switch group {
	case timeseries.GroupNode:
		names = net.NodeNames()
	case timeseries.GroupReach:
		names = net.ReachNames()
	case timeseries.GroupCatchment:
		names = net.CatchmentNames()
	case timeseries.GroupStructure:
		names = net.StructureNames()
	}
	c.JSON(http.StatusOK, gin.H{
		"group":      group,
		"names":      names,
		"quantities": net.Quantities(group),
	})
}

func (s *Server) handleProfiles(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles, err := s.service.Profile(s.set)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (s *Server) handleSeries(c *gin.Context) {
	group, err := timeseries.ParseGroup(c.DefaultQuery("group", "Node"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity := c.Query("quantity")
	if quantity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	name := c.Query("name")

	var q timeseries.Query
	switch group {
	case timeseries.GroupNode:
		q = timeseries.NodeQuery{Quantity: quantity, Name: name}
	case timeseries.GroupReach:
		chainage := math.NaN()
		if raw := c.Query("chainage"); raw != "" {
			chainage, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "chainage must be numeric"})
				return
			}
		}
		q = timeseries.ReachQuery{Quantity: quantity, Name: name, Chainage: chainage, Tag: c.Query("tag")}
	case timeseries.GroupCatchment:
		q = timeseries.CatchmentQuery{Quantity: quantity, Name: name}
	case timeseries.GroupStructure:
		q = timeseries.StructureQuery{Quantity: quantity, Name: name}
	case timeseries.GroupGlobal:
		q = timeseries.GlobalQuery{Quantity: quantity}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	selected, err := s.service.Series(s.set, q)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ids, err := timeseries.FromColumnIndex(selected.Index())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	columns := make([]gin.H, selected.NumColumns())
	for i := range ids {
		columns[i] = gin.H{"id": ids[i].String(), "values": selected.Column(i)}
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   q.String(),
		"times":   selected.Times(),
		"columns": columns,
	})
}

// aggregateRequest is the POST /aggregate body.
type aggregateRequest struct {
	Group     string `json:"group" binding:"required"`
	Strategy  string `json:"strategy" binding:"required"`
	Duplicate string `json:"duplicate,omitempty"`
	Chainage  string `json:"chainage,omitempty"`
	Time      string `json:"time,omitempty"`
}

func (s *Server) handleAggregate(c *gin.Context) {
	var req aggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := timeseries.ParseGroup(req.Group)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := []aggregate.Option{}
	if req.Duplicate != "" {
		opts = append(opts, aggregate.WithDuplicateStrategy(req.Duplicate))
	}
	if req.Chainage != "" {
		opts = append(opts, aggregate.WithChainageStrategy(req.Chainage))
	}
	if req.Time != "" {
		opts = append(opts, aggregate.WithTimeStrategy(req.Time))
	}
	agg, err := aggregate.New(req.Strategy, opts...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.service.Aggregate(c.Request.Context(), s.set, group, agg)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if core.IsFormatError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	s.runs[rec.ID] = rec
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleReport(c *gin.Context) {
	id := core.RunID(c.Param("id"))

	s.mu.RLock()
	rec, ok := s.runs[id]
	net := s.set.Network
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("run %s not found", id)})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(rec, net))
}
