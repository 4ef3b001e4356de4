// Command viewer loads an infographic document from a file, a bundled
// resource, a local directory, or a remote generator, and renders it as a
// text outline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"repograph/internal/generate"
	"repograph/internal/infographic"
	"repograph/internal/resource"
	"repograph/internal/scan"
	"repograph/internal/session"
	"repograph/internal/view"
)

func main() {
	var (
		filePath    = flag.String("file", "", "path to a document JSON file")
		resName     = flag.String("resource", "", "name of a bundled document resource")
		resourceDir = flag.String("resource-dir", "", "directory of extra document resources")
		localDir    = flag.String("local", "", "build a fallback document from the files in this directory")
		repoURL     = flag.String("repo", "", "repository URL to send to the generator")
		backendURL  = flag.String("backend", os.Getenv("GENERATOR_URL"), "generator endpoint URL")
		model       = flag.String("model", os.Getenv("GENERATOR_MODEL"), "generator model hint")
		expandAll   = flag.Bool("expand-all", true, "expand every node in the outline")
	)
	flag.Parse()

	sess := session.New(generate.NewHTTPClient(*backendURL, *model, 0))

	switch {
	case *filePath != "":
		raw, err := os.ReadFile(*filePath)
		if err != nil {
			log.Fatalf("read %s: %v", *filePath, err)
		}
		doc, report, err := infographic.DecodeWithReport(raw)
		if err != nil {
			log.Fatalf("decode %s: %v", *filePath, err)
		}
		for _, d := range report.Dropped {
			log.Printf("warning: dropped node at %s: %s", d.Path, d.Reason)
		}
		sess.Show(doc)

	case *resName != "":
		doc, err := resource.NewStore(*resourceDir).Load(*resName)
		if err != nil {
			log.Fatalf("load resource %q: %v", *resName, err)
		}
		sess.Show(doc)

	case *localDir != "":
		doc, err := scan.BuildDocument(*localDir, scan.Options{})
		if err != nil {
			log.Fatalf("scan %s: %v", *localDir, err)
		}
		sess.Show(doc)

	case *repoURL != "":
		if _, err := sess.Generate(context.Background(), *repoURL); err != nil {
			log.Fatalf("generate: %v", err)
		}

	default:
		fmt.Fprintln(os.Stderr, "one of -file, -resource, -local or -repo is required")
		flag.Usage()
		os.Exit(2)
	}

	doc := sess.Document()
	st := sess.State()
	if *expandAll {
		st.ExpandAll(doc)
	}
	fmt.Println(view.RenderText(doc, st))
}
