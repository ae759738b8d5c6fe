package bridge

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/shaker"
	"github.com/zeu5/mixing-rl/types"
)

func newTestBridge(ctx context.Context) (*httptest.Server, *shaker.Shaker, *Client) {
	config := shaker.DefaultConfig()
	config.Seed = 7
	sim := shaker.New(config)
	ts := httptest.NewServer(NewServer(ctx, "", sim).Handler())
	return ts, sim, NewClient(ts.URL)
}

func TestBridge(t *testing.T) {
	Convey("Given a shaker served over HTTP", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		ts, sim, client := newTestBridge(ctx)
		Reset(func() {
			ts.Close()
			cancel()
		})

		Convey("Reset opens an episode with both populations", func() {
			h, err := client.Reset(ctx)
			So(err, ShouldBeNil)
			So(h, ShouldNotBeEmpty)
			So(sim.Open(), ShouldEqual, 1)

			positions, err := client.Positions(ctx, h)
			So(err, ShouldBeNil)
			So(positions, ShouldHaveLength, 2*mixing.DefaultPopulation)

			Convey("Actions and teardown go through", func() {
				So(client.Apply(ctx, h, mixing.Left), ShouldBeNil)
				So(client.Teardown(ctx, h), ShouldBeNil)
				So(sim.Open(), ShouldEqual, 0)

				_, err := client.Positions(ctx, h)
				So(errors.Is(err, mixing.ErrUnknownHandle), ShouldBeTrue)
			})
		})

		Convey("An unknown handle is reported as such", func() {
			err := client.Apply(ctx, mixing.Handle("nope"), mixing.Up)
			So(errors.Is(err, mixing.ErrUnknownHandle), ShouldBeTrue)
		})

		Convey("An unknown direction is rejected with 400", func() {
			h, err := client.Reset(ctx)
			So(err, ShouldBeNil)
			body := bytes.NewBufferString(`{"direction":"Sideways"}`)
			resp, err := http.Post(ts.URL+"/episodes/"+string(h)+"/actions", "application/json", body)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			So(errors.Is(client.Apply(ctx, h, mixing.Direction(9)), types.ErrInvalidDirection), ShouldBeTrue)
		})

		Convey("A closed server makes the environment unavailable", func() {
			ts.Close()
			_, err := client.Reset(ctx)
			So(errors.Is(err, types.ErrEnvironmentUnavailable), ShouldBeTrue)
		})

		Convey("Training drives the remote simulator", func() {
			config := mixing.DefaultTrainConfig()
			config.Episodes = 3
			config.Horizon = 4
			config.Quiet = true
			res, err := mixing.TrainOneRun(ctx, client, config)
			So(err, ShouldBeNil)
			So(res.Returns, ShouldHaveLength, 3)
			So(sim.Open(), ShouldEqual, 0)
		})

		Convey("A cancelled episode still releases the remote episode", func() {
			env := mixing.NewMixEnvironment(client, mixing.EnvironmentConfig{})
			eCtx := types.NewEpisodeContext(ctx, 1, "cancelled", nil, "")
			_, err := env.Reset(eCtx)
			So(err, ShouldBeNil)
			So(sim.Open(), ShouldEqual, 1)

			eCtx.Cancel()
			So(env.Close(eCtx), ShouldBeNil)
			So(sim.Open(), ShouldEqual, 0)
		})
	})
}
