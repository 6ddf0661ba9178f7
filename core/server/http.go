/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RequestIDHeader carries the request id, echoed back when the client sent one.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Router returns the HTTP routes of the server.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog)

	r.HandleFunc("/", s.landing).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	datasets := r.PathPrefix("/datasets/{name}").Subrouter()
	datasets.HandleFunc("", s.table).Methods(http.MethodGet)
	datasets.HandleFunc("/export.csv", s.export).Methods(http.MethodGet)
	datasets.HandleFunc("/insights.json", s.insights).Methods(http.MethodGet)
	return r
}

func (s *Server) landing(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.HandleLandingRequest(w, w.Header().Set))
}

func (s *Server) table(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.HandleTableRequest(w, r.URL, mux.Vars(r)["name"], w.Header().Set))
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.HandleExportRequest(w, r.URL, mux.Vars(r)["name"], w.Header().Set))
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.HandleInsightsRequest(w, r.URL, mux.Vars(r)["name"], w.Header().Set))
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// writeResult reports a failed request. Results without a status code mean
// the body was already partially written, so nothing more can be sent.
func writeResult(w http.ResponseWriter, result *TableHandlerResult) {
	if result == nil || result.StatusCode == 0 {
		return
	}
	http.Error(w, result.Message, result.StatusCode)
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", RequestID(r.Context())),
		)
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully,
// waiting at most shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
