package pinger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/keepalive/internal/pinger"
	"github.com/angeloszaimis/keepalive/internal/target"
	"github.com/angeloszaimis/keepalive/pkg/logger"
)

var _ = Describe("HTTPPinger", func() {
	var (
		buf    *bytes.Buffer
		p      *pinger.HTTPPinger
		server *httptest.Server
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		p = pinger.New(logger.NewWithWriter(buf, "debug", false, "prod"), pinger.WithTimeout(200*time.Millisecond))

		mux := http.NewServeMux()
		mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.HandleFunc("/no-content", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/ok", http.StatusFound)
		})
		mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		server = httptest.NewServer(mux)
	})

	AfterEach(func() {
		server.Close()
	})

	records := func() []map[string]any {
		var out []map[string]any
		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			if line == "" {
				continue
			}
			var rec map[string]any
			Expect(json.Unmarshal([]byte(line), &rec)).To(Succeed())
			out = append(out, rec)
		}
		return out
	}

	ping := func(path string) pinger.Outcome {
		return p.Ping(context.Background(), target.New("svc", server.URL+path, 10))
	}

	Describe("New", func() {
		It("should default the timeout to 25 seconds", func() {
			Expect(pinger.New(logger.NewWithWriter(buf, "info", false, "dev")).Timeout()).To(Equal(25 * time.Second))
		})

		It("should ignore non-positive timeouts", func() {
			custom := pinger.New(logger.NewWithWriter(buf, "info", false, "dev"), pinger.WithTimeout(0))
			Expect(custom.Timeout()).To(Equal(pinger.DefaultTimeout))
		})
	})

	Describe("Ping", func() {
		It("should classify 200 as success", func() {
			out := ping("/ok")
			Expect(out.Kind).To(Equal(pinger.Success))
			Expect(out.StatusCode).To(Equal(http.StatusOK))
			Expect(out.Err).NotTo(HaveOccurred())
			Expect(out.Latency).To(BeNumerically(">", 0))
		})

		It("should classify 204 as success", func() {
			Expect(ping("/no-content").Kind).To(Equal(pinger.Success))
		})

		It("should follow redirects and classify the final status", func() {
			out := ping("/moved")
			Expect(out.Kind).To(Equal(pinger.Success))
			Expect(out.StatusCode).To(Equal(http.StatusOK))
		})

		It("should classify 404 as failure status", func() {
			out := ping("/missing")
			Expect(out.Kind).To(Equal(pinger.FailureStatus))
			Expect(out.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("should classify 500 as failure status", func() {
			out := ping("/broken")
			Expect(out.Kind).To(Equal(pinger.FailureStatus))
			Expect(out.StatusCode).To(Equal(http.StatusInternalServerError))
		})

		It("should classify a timeout as transport failure", func() {
			start := time.Now()
			out := ping("/slow")
			Expect(out.Kind).To(Equal(pinger.Transport))
			Expect(out.StatusCode).To(BeZero())
			Expect(out.Err).To(HaveOccurred())
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
		})

		It("should classify an unreachable address as transport failure", func() {
			closed := httptest.NewServer(http.NotFoundHandler())
			addr := closed.URL
			closed.Close()

			out := p.Ping(context.Background(), target.New("gone", addr, 10))
			Expect(out.Kind).To(Equal(pinger.Transport))
		})

		It("should classify a malformed address as transport failure", func() {
			out := p.Ping(context.Background(), target.New("bad", "://nope", 10))
			Expect(out.Kind).To(Equal(pinger.Transport))
			Expect(out.Err.Error()).To(ContainSubstring("failed to create request"))
		})

		It("should abort when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				time.Sleep(20 * time.Millisecond)
				cancel()
			}()

			custom := pinger.New(logger.NewWithWriter(buf, "debug", false, "prod"), pinger.WithTimeout(5*time.Second))
			start := time.Now()
			out := custom.Ping(ctx, target.New("svc", server.URL+"/slow", 10))

			Expect(out.Kind).To(Equal(pinger.Transport))
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))

			recs := records()
			Expect(recs).To(HaveLen(1))
			Expect(recs[0]).To(HaveKeyWithValue("level", "INFO"))
			Expect(recs[0]).To(HaveKeyWithValue("msg", "Ping aborted by shutdown"))
		})
	})

	Describe("logging", func() {
		It("should emit one info record on success", func() {
			ping("/ok")

			recs := records()
			Expect(recs).To(HaveLen(1))
			Expect(recs[0]).To(HaveKeyWithValue("level", "INFO"))
			Expect(recs[0]).To(HaveKeyWithValue("outcome", "success"))
			Expect(recs[0]).To(HaveKeyWithValue("target", "svc"))
			Expect(recs[0]).To(HaveKeyWithValue("status_code", BeNumerically("==", 200)))
		})

		It("should emit one warn record on failure status", func() {
			ping("/broken")

			recs := records()
			Expect(recs).To(HaveLen(1))
			Expect(recs[0]).To(HaveKeyWithValue("level", "WARN"))
			Expect(recs[0]).To(HaveKeyWithValue("outcome", "failure_status"))
			Expect(recs[0]).To(HaveKeyWithValue("status_code", BeNumerically("==", 500)))
		})

		It("should emit one error record with the error detail on timeout", func() {
			ping("/slow")

			recs := records()
			Expect(recs).To(HaveLen(1))
			Expect(recs[0]).To(HaveKeyWithValue("level", "ERROR"))
			Expect(recs[0]).To(HaveKeyWithValue("outcome", "exception_or_timeout"))
			Expect(recs[0]).To(HaveKey("error"))
			Expect(recs[0]).NotTo(HaveKey("status_code"))
		})
	})
})

var _ = Describe("Classify", func() {
	DescribeTable("status codes",
		func(code int, kind pinger.Kind) {
			Expect(pinger.Classify(code)).To(Equal(kind))
		},
		Entry("100", 100, pinger.FailureStatus),
		Entry("200", 200, pinger.Success),
		Entry("201", 201, pinger.Success),
		Entry("299", 299, pinger.Success),
		Entry("300", 300, pinger.FailureStatus),
		Entry("304", 304, pinger.FailureStatus),
		Entry("404", 404, pinger.FailureStatus),
		Entry("500", 500, pinger.FailureStatus),
		Entry("503", 503, pinger.FailureStatus),
	)
})

var _ = Describe("Kind", func() {
	It("should name every outcome class", func() {
		Expect(pinger.Success.String()).To(Equal("success"))
		Expect(pinger.FailureStatus.String()).To(Equal("failure_status"))
		Expect(pinger.Transport.String()).To(Equal("exception_or_timeout"))
		Expect(pinger.Kind(42).String()).To(Equal("unknown"))
	})
})
