package stockcheck_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/stockcheck"
	"github.com/aretw0/stockcheck/pkg/adapters/memory"
	"github.com/aretw0/stockcheck/pkg/catalog"
)

// ExampleApp_Handle walks one conversation through a two-item catalog.
func ExampleApp_Handle() {
	ctx := context.Background()
	cat := catalog.MustNew(catalog.Definition{
		Quantities: []catalog.Threshold{{Name: "Orange", Min: 2}},
		YesNo:      []string{"Soap"},
	})

	app, err := stockcheck.New(ctx, cat, memory.NewValueStore())
	if err != nil {
		log.Fatal(err)
	}

	for _, msg := range []string{"/count", "1", "Мало"} {
		reply, err := app.Handle(ctx, "chat-1", msg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(reply.Text)
		fmt.Println("---")
	}

	// Output:
	// Orange
	// Предыдущее значение: 0
	// Введите новое значение или /skip
	// ---
	// Soap
	// Предыдущее значение: 0
	// Введите новое значение или /skip
	// ---
	// 📦 Отчет:
	//
	// Orange: 1
	// Soap: Мало
	//
	// ⚠️ МАЛО:
	// - Orange
	// - Soap
	//
	// ---
}
