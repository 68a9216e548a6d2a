package index

// Cities are the default markets listings are generated for.
var Cities = []string{"Berlin", "Munich", "Hamburg", "Cologne", "Frankfurt"}
