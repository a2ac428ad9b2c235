// Command diagen renders an architecture diagram from a description on the
// command line, without the HTTP server. It always uses the offline client,
// so it works with no API key and no network.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"diagen/internal/diagram"
	"diagen/internal/llm"
	"diagen/internal/render"
)

func main() {
	desc := flag.String("desc", "", "architecture description")
	file := flag.String("file", "", "read the description from a file instead")
	format := flag.String("format", "png", "output format: png, svg or jpg")
	outDir := flag.String("out", "out", "output directory")
	dumpSource := flag.Bool("source", false, "print the generated Graphviz source")
	flag.Parse()

	_ = godotenv.Load()

	description := strings.TrimSpace(*desc)
	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			log.Fatal(err)
		}
		description = strings.TrimSpace(string(raw))
	}
	if description == "" {
		log.Fatal("--desc or --file is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmtVal, err := diagram.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}

	vocab := diagram.NewVocabulary()
	parser := diagram.NewParser(vocab, zap.NewNop())
	templates := diagram.NewTemplates(vocab)

	payload, err := llm.NewFakeClient().ExtractGraph(ctx, description)
	if err != nil {
		log.Fatal(err)
	}
	graph, err := parser.Parse(payload, fmtVal)
	if err != nil {
		log.Fatal(err)
	}
	if graph.Empty() {
		log.Println("no components recognized, using template")
		graph = templates.Lookup(description, fmtVal)
	}

	source := diagram.Synthesize(graph)
	if *dumpSource {
		fmt.Println(source)
	}

	renderer, err := render.New(*outDir, 10*time.Second, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	art, err := renderer.Render(ctx, source, fmtVal)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("rendered %s (%d bytes)", art.Path, art.Size)
}
