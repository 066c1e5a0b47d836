package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

func TestInstrument(t *testing.T) {
	Convey("Given an instrumented handler", t, func() {
		Convey("The status written by the handler passes through", func() {
			h := instrument("test", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTeapot)
				w.WriteHeader(http.StatusOK)
			})
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/", nil))
			So(w.Code, ShouldEqual, http.StatusTeapot)
		})

		Convey("The request context carries the endpoint for logging", func() {
			var fields []logger.Field
			h := instrument("trending", func(_ http.ResponseWriter, r *http.Request) {
				fields = logger.FieldsFrom(r.Context())
			})
			h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trending", nil))
			So(fields, ShouldResemble, []logger.Field{
				logger.String("endpoint", "trending"),
				logger.String("method", http.MethodGet),
			})
		})

		Convey("A bare write counts as 200", func() {
			rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
			So(rec.status(), ShouldEqual, http.StatusOK)
			_, err := rec.Write([]byte("ok"))
			So(err, ShouldBeNil)
			So(rec.status(), ShouldEqual, http.StatusOK)
		})
	})

	Convey("Error classes follow the status", t, func() {
		ctx := context.Background()
		So(errorClass(ctx, http.StatusOK), ShouldBeEmpty)
		So(errorClass(ctx, http.StatusAccepted), ShouldBeEmpty)
		So(errorClass(ctx, http.StatusBadRequest), ShouldEqual, "client_error")
		So(errorClass(ctx, http.StatusNotFound), ShouldEqual, "not_found")
		So(errorClass(ctx, http.StatusMethodNotAllowed), ShouldEqual, "method_not_allowed")
		So(errorClass(ctx, http.StatusServiceUnavailable), ShouldEqual, "server_error")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		So(errorClass(cancelled, http.StatusServiceUnavailable), ShouldEqual, "client_closed")
	})
}
