package main

import "github.com/gtursunxujayev-art/Super-aylana-sub000/internal/app"

func main() {
	app.Start()
}
