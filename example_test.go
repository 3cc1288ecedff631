package floc_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/petrijr/floc"
)

// Example_switchAndTerminate shows two flows handing control to each other
// through the engine.
func Example_switchAndTerminate() {
	ctx := context.Background()

	greeter := floc.NewFlow("greeter")
	farewell := floc.NewFlow("farewell")

	err := floc.New("greeter").
		Entry("hello", floc.TypedEntry(func(ctx context.Context, name string) (floc.Outcome, error) {
			fmt.Printf("hello, %s\n", name)
			return floc.SwitchTo(farewell, "bye", name), nil
		})).
		OnExit(func(ctx context.Context) {
			fmt.Println("greeter done")
		}).
		Apply(greeter)
	if err != nil {
		log.Fatal(err)
	}

	err = floc.New("farewell").
		Entry("bye", floc.TypedEntry(func(ctx context.Context, name string) (floc.Outcome, error) {
			return floc.Terminate("goodbye, " + name), nil
		})).
		Apply(farewell)
	if err != nil {
		log.Fatal(err)
	}

	result, err := floc.Execute(ctx, floc.NewEngine(), greeter, "hello", "Gopher")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result)

	// Output:
	// hello, Gopher
	// greeter done
	// goodbye, Gopher
}

// Example_lineSource drives a flow from line-oriented input.
func Example_lineSource() {
	ctx := context.Background()

	input := strings.NewReader("apple\npear\nquit\nnever read\n")
	var picked []string

	basket := floc.New("basket").
		Source(floc.NewLineSource(input)).
		Handler(floc.NewDispatcher().
			OnEqual("quit", func(ctx context.Context, ev any) (floc.Outcome, error) {
				return floc.Terminate(picked), nil
			}).
			On(func(ev any) bool { return ev != "quit" }, func(ctx context.Context, ev any) (floc.Outcome, error) {
				picked = append(picked, ev.(string))
				return floc.Continue(), nil
			})).
		MustBuild()

	result, err := floc.Execute(ctx, floc.NewEngine(), basket, "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result)

	// Output:
	// [apple pear]
}

// Example_localRunner shows inspecting history and metrics after a run.
func Example_localRunner() {
	ctx := context.Background()
	runner := floc.NewLocalRunner()

	flow := floc.New("countdown").
		Entry("from", floc.TypedEntry(func(ctx context.Context, n int) (floc.Outcome, error) {
			if n == 0 {
				return floc.Terminate("liftoff"), nil
			}
			return floc.SwitchTo(floc.FlowFromContext(ctx), "from", n-1), nil
		})).
		MustBuild()

	runID, result, err := runner.Execute(ctx, flow, "from", 2)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result)

	records, _ := runner.History(ctx, runID)
	for _, r := range records {
		fmt.Println(strings.TrimSpace(fmt.Sprintf("%s %s %s", r.Type, r.Entry, r.Detail)))
	}
	fmt.Println("flows entered:", runner.Metrics.Snapshot().FlowsEntered)

	// Output:
	// liftoff
	// run.started from
	// flow.entered from
	// flow.exited from switch to countdown.from
	// flow.entered from
	// flow.exited from switch to countdown.from
	// flow.entered from
	// flow.exited from terminate with liftoff
	// run.completed from liftoff
	// flows entered: 3
}
