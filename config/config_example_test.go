// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"
)

func Example() {
	ctx := WithEnviron(context.Background(), Map{})

	myIntFromString, _ := Read(
		ctx,
		Default(10, Int64FromString(Env("MY_INT"))),
	)

	myIntFromBytes, _ := Read(
		ctx,
		Default(10, Int64FromBytes(binary.LittleEndian, ReaderOf(bytes.NewReader([]byte{1, 1, 1, 1, 1, 1, 1, 1})))),
	)

	fmt.Println(myIntFromString)
	fmt.Println(myIntFromBytes)
	// Output:
	// 10
	// 72340172838076673
}

func ExampleInit() {
	type Config struct {
		Host    *Field[string]
		Port    *Field[int]
		Timeout *Field[time.Duration]
	}

	cfg := Config{
		Host: TextField(Var{Name: "HOST", Description: "Host to bind to"}),
		Port: NewField(
			Var{Name: "PORT", Description: "Port to listen on", DefaultText: "8080"},
			func(r Reader[string]) Reader[int] {
				return Default(8080, Validate(IntFromString(r), "min=1,max=65535"))
			},
		),
		Timeout: NewField(
			Var{Name: "TIMEOUT", Description: "Request timeout"},
			DurationFromString,
		),
	}

	ctx := WithEnviron(context.Background(), Map{
		"HOST": "0.0.0.0",
	})

	err := Init(ctx, &cfg)
	fmt.Print(err)
	// Output:
	// Error during configuration initialization:
	// Got 1 incorrect variable
	// - `TIMEOUT`: value not set
	// Got 2 valid variables
	// - `HOST`
	// - `PORT`
	// Full required environment description:
	// - `TIMEOUT`: Request timeout
	// - `HOST`: Host to bind to
	// - `PORT`: Port to listen on (default: 8080)
}

func ExampleDescribe() {
	type Config struct {
		Token *Field[string]
		Debug *Field[bool]
	}

	cfg := Config{
		Token: TextField(Var{Name: "API_TOKEN", Description: "Token used to call the API", Secret: true}),
		Debug: NewField(
			Var{Name: "DEBUG", DefaultText: "false"},
			func(r Reader[string]) Reader[bool] {
				return Default(false, BoolFromString(r))
			},
		),
	}

	err := Describe(os.Stdout, &cfg)
	if err != nil {
		fmt.Println(err)
	}
	// Output:
	// - `API_TOKEN`: Token used to call the API
	// - `DEBUG` (default: false)
}
