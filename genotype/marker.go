package genotype

// Marker is a single row of the genotype matrix as parsed, before any test has
// been run on it.
type Marker struct {
	Name         string
	LinkageGroup string
	Position     float64 // centimorgans
	Genotypes    []string

	// Row is the 1-based line of the input that this marker came from.
	Row int
}

// Dataset is the fully resolved matrix. Index i of SampleIDs, Phenotypes and
// each marker's Genotypes always refers to the same sample.
type Dataset struct {
	SampleIDs  []string
	Phenotypes []float64
	Markers    []Marker
}

// SampleCount is the number of samples declared by the sample-id header row.
func (d *Dataset) SampleCount() int {
	return len(d.SampleIDs)
}

// Groups partitions the phenotype values by the genotype symbol that marker i
// carries for each sample. Every symbol observed is kept, including missing
// and heterozygous codes; callers decide which classes to compare.
func (d *Dataset) Groups(i int) map[string][]float64 {
	out := make(map[string][]float64)
	for j, symbol := range d.Markers[i].Genotypes {
		out[symbol] = append(out[symbol], d.Phenotypes[j])
	}

	return out
}

// Counts returns the number of samples carrying each genotype symbol at
// marker i.
func (d *Dataset) Counts(i int) map[string]int {
	out := make(map[string]int)
	for _, symbol := range d.Markers[i].Genotypes {
		out[symbol]++
	}

	return out
}

// Lookup returns the index of the marker with the given name.
func (d *Dataset) Lookup(name string) (int, bool) {
	for i, m := range d.Markers {
		if m.Name == name {
			return i, true
		}
	}

	return -1, false
}
