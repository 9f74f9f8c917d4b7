// Package render holds the in-process handles the viewer core hands around:
// geometry containers, mappers, actors, and the text overlay. They track the
// state a graphics toolkit would consume (points, typed cells, scalar
// arrays, visibility) without drawing anything themselves.
package render
