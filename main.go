package main

import "log/slog"

func main() {

	engine, err := NewStorageEngine("ember.db")

	if err != nil {
		panic(err)
	}

	rootPageId, err := engine.CreateTable("users")

	if err != nil {
		panic(err)
	}

	slog.Info("created table", "table", "users", "rootPageId", rootPageId)

	if err := engine.Close(); err != nil {
		panic(err)
	}
}
