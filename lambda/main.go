// Command lambda serves single solves behind an AWS Lambda function URL.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/tidwall/gjson"

	"github.com/SvenDH/chess-nonogram/ai"
	"github.com/SvenDH/chess-nonogram/config"
	"github.com/SvenDH/chess-nonogram/game"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

var limits = config.Limits{Generations: 2000, Population: 200, Cells: 48 * 48, SearchLimit: 1000}

// deadlineMargin leaves time to repair and answer before the function times out.
const deadlineMargin = 500 * time.Millisecond

type solveResult struct {
	Score  int         `json:"score"`
	Pieces int         `json:"pieces"`
	Board  string      `json:"board"`
	Report game.Report `json:"report"`
	TimeMs int64       `json:"timeMs"`
}

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}
	if !gjson.Valid(body) {
		return errResp(400, "invalid JSON")
	}

	req, err := config.ParseRequest(gjson.Parse(body))
	if err != nil {
		return errResp(400, err.Error())
	}
	settings, err := req.Apply(config.Default(), limits)
	if err != nil {
		return errResp(400, err.Error())
	}
	settings.Search.LogEvery = 0
	p, err := settings.Puzzle(req.Image)
	if err != nil {
		return errResp(400, err.Error())
	}

	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline.Add(-deadlineMargin))
		defer cancel()
	}
	seed := req.Seed
	if !req.HasSeed {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	eval := settings.Evaluator(p)
	es := ai.NewEvolutionarySearch(p, eval, settings.Search, rand.New(rand.NewSource(seed)))
	es.Run(ctx)
	best := es.Finish()
	report := eval.Report(best.Genes)

	resp := solveResult{
		Score:  report.Score,
		Pieces: report.Pieces,
		Board:  game.BoardString(p, best.Genes, game.FormatOptions{Fill: settings.Fill}),
		Report: report,
		TimeMs: time.Since(start).Milliseconds(),
	}
	respJSON, _ := json.Marshal(resp)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
