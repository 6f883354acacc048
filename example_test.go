package ussdsim_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/ussdsim"
)

// Example walks into a submenu of *123# and back out.
func Example() {
	eng, err := ussdsim.New()
	if err != nil {
		log.Fatal(err)
	}

	s := eng.NewSession()
	ctx := context.Background()

	root, err := s.Dial(ctx, "*123#", "Orange")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(root.IsMenu, len(root.Options))

	out, err := s.Select(ctx, "1")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Response.OffersBack())

	out, err = s.Select(ctx, "0")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Ended, out.Reason, s.Status())

	// Output:
	// true 5
	// true
	// true exit idle
}

// Example_unknownCode shows the generic answer for codes missing from the catalog.
func Example_unknownCode() {
	eng, _ := ussdsim.New()
	s := eng.NewSession()

	resp, _ := s.DialFrom(context.Background(), "3", "Slot 1", "*999#")
	fmt.Println(resp.Message)

	// Output:
	// USSD code *999# executed successfully on Inwi network.
	//
	// Service not available at the moment.
	// Please try again later.
}
