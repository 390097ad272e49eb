package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qbitworks/qvar-estimator/internal/observable"
)

// Generates a random Ising problem file: a field term on every qubit plus
// random two-qubit couplings, with weights drawn uniformly from [-1, 1].
func main() {
	qubits := flag.Int("qubits", 6, "number of qubits")
	edges := flag.Int("edges", 8, "number of random two-qubit couplings")
	seed := flag.Uint64("seed", 0, "rng seed (0 = nondeterministic)")
	name := flag.String("name", "random-ising", "problem name")
	out := flag.String("out", "problem.yaml", "output file path")
	flag.Parse()

	if *qubits < 2 {
		log.Fatal("need at least 2 qubits")
	}
	maxEdges := *qubits * (*qubits - 1) / 2
	if *edges > maxEdges {
		log.Fatalf("at most %d distinct couplings on %d qubits", maxEdges, *qubits)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	obs := &observable.Diagonal{
		Name:      *name,
		NumQubits: *qubits,
	}
	for i := 0; i < *qubits; i++ {
		obs.Terms = append(obs.Terms, observable.Term{
			Weight: rng.Float64()*2 - 1,
			Qubits: []int{i},
		})
	}

	seen := make(map[[2]int]bool)
	for len(seen) < *edges {
		i := rng.IntN(*qubits)
		j := rng.IntN(*qubits)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		key := [2]int{i, j}
		if seen[key] {
			continue
		}
		seen[key] = true
		obs.Terms = append(obs.Terms, observable.Term{
			Weight: rng.Float64()*2 - 1,
			Qubits: []int{i, j},
		})
	}

	if err := obs.Validate(); err != nil {
		log.Fatalf("generated problem invalid: %v", err)
	}

	data, err := yaml.Marshal(obs)
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}

	fmt.Printf("wrote %s: %d qubits, %d terms\n", *out, obs.NumQubits, len(obs.Terms))
	fmt.Printf("run with: ./qvar -problem %s\n", *out)
}
