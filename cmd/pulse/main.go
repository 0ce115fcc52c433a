package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// pulse provides a small monitor that shows telemetry sends per second, it
// exposes a small HTTP API to receive the values from the bridge.

const (
	ListenHost     string = "127.0.0.1"
	ListenPort     int    = 8090
	HistorySeconds int    = 30
)

// Define styles for the chart
var (
	defaultStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63")) // purple

	graphLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")) // blue

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")) // yellow

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")) // cyan
)

// A command that waits for the activity on a channel.
func waitForActivity(sub chan int) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

type model struct {
	sub      chan int // where we'll receive activity notifications
	rps      int
	spinner  spinner.Model
	quitting bool
	chart    streamlinechart.Model
	zM       *zone.Manager
}

func newModel(sub chan int, zM *zone.Manager) model {
	return model{
		sub:     sub,
		spinner: spinner.New(),
		chart:   newChart(zM),
		zM:      zM,
	}
}

// newChart creates the sends/s chart, mouse events are routed to it through
// zM.
func newChart(zM *zone.Manager) streamlinechart.Model {
	chart := streamlinechart.New(60, 15,
		streamlinechart.WithYRange(0, 100),
		streamlinechart.WithAxesStyles(axisStyle, labelStyle),
		streamlinechart.WithStyles(runes.ThinLineStyle, graphLineStyle),
		streamlinechart.WithZoneManager(zM),
	)
	chart.DrawXYAxisAndLabel()
	return chart
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForActivity(m.sub), // wait for activity
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.chart.ClearAllData()
			m.chart.Clear()
			m.chart.DrawXYAxisAndLabel()
			return m, nil
		default:
			var cmd tea.Cmd
			m.chart, cmd = m.chart.Update(msg)
			m.chart.DrawAll()
			return m, cmd
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			if m.zM.Get(m.chart.ZoneID()).InBounds(msg) {
				m.chart.Focus()
			} else {
				m.chart.Blur()
			}
		}
		var cmd tea.Cmd
		m.chart, cmd = m.chart.Update(msg)
		m.chart.DrawAll()
		return m, cmd
	case int:
		m.rps = msg
		m.chart.Push(float64(msg))
		m.chart.Draw()
		return m, waitForActivity(m.sub) // wait for next event
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m model) View() string {
	s := fmt.Sprintf("\n %s Current Telemetry Sends/s: %d\n\n", m.spinner.View(), m.rps)

	s += defaultStyle.Render(m.chart.View())

	s += "\n Press 'r' to reset, 'q' or 'ctrl+c' to exit\n"
	s += " Use mouse wheel or pgup/pgdown to zoom, arrow keys to pan\n"

	if m.quitting {
		s += "\n"
	}
	return m.zM.Scan(s) // call zone Manager.Scan() at root model
}

func setupRoutes(ch chan int) http.Handler {
	apirouter := http.NewServeMux()

	apirouter.HandleFunc("POST /rps", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		// This receives just an integer as plain text. Parse it.

		body, _ := io.ReadAll(r.Body)
		r.Body.Close()

		v, err := strconv.Atoi(strings.TrimSpace(string(body)))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		select {
		case ch <- v:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	})

	return apirouter
}

func main() {
	slog.Info("Devcon Telemetry Pulse is starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ch := make(chan int)

	apiserver := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", ListenHost, ListenPort),
		Handler: setupRoutes(ch),
	}
	go func() {
		if err := apiserver.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error.", "error", err)
		}
		slog.Info("Stopped serving new API HTTP connections.")
	}()

	p := tea.NewProgram(newModel(ch, zone.New()),
		tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Println("could not start program:", err)
		os.Exit(1)
	}
	apiserver.Shutdown(context.Background())
}
