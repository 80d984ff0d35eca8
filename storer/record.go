package storer

type Record struct {
	Id       string
	Values   []float32
	Metadata map[string]string
}

type Match struct {
	Id       string
	Score    float32
	Metadata map[string]string
}
