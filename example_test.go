package mpsc_test

import (
	"errors"
	"fmt"
	"slices"

	"github.com/baxromumarov/mpsc"
)

func ExampleNew() {
	tx, rx := mpsc.New[string]()

	go func() {
		defer tx.Close()
		tx.Send("hello")
		tx.Send("world")
	}()

	for msg := range rx.All() {
		fmt.Println(msg)
	}
	// Output:
	// hello
	// world
}

func ExampleSender_Clone() {
	tx, rx := mpsc.New[int]()

	for i := range 3 {
		w := tx.Clone()
		go func() {
			defer w.Close()
			w.Send(i * 10)
		}()
	}
	// The original handle must be released too, or the channel never closes.
	tx.Close()

	var got []int
	for v := range rx.All() {
		got = append(got, v)
	}
	slices.Sort(got)
	fmt.Println(got)
	// Output: [0 10 20]
}

func ExampleReceiver_TryRecv() {
	tx, rx := mpsc.New[int]()

	_, err := rx.TryRecv()
	fmt.Println(errors.Is(err, mpsc.ErrEmpty))

	tx.Send(1)
	tx.Close()

	v, err := rx.TryRecv()
	fmt.Println(v, err)

	_, err = rx.TryRecv()
	fmt.Println(errors.Is(err, mpsc.ErrClosed))
	// Output:
	// true
	// 1 <nil>
	// true
}

func ExampleReceiver_Close() {
	tx, rx := mpsc.New[int]()
	defer tx.Close()

	rx.Close()
	tx.Send(1) // absorbed: nobody will read it

	st := tx.Stats()
	fmt.Println(st.Sent, st.Dropped)
	// Output: 1 1
}
