package util

import (
	"sort"
	"strconv"
)

type Elem interface {
	Key() string
}

type StringElem string

func (s StringElem) Key() string {
	return string(s)
}

type IntElem int

func (i IntElem) Key() string {
	return strconv.Itoa(int(i))
}

// MultiSet is an unordered collection that keeps repeated elements
type MultiSet []Elem

// IntMultiSet builds a multiset out of integers
func IntMultiSet(values ...int) MultiSet {
	m := make(MultiSet, len(values))
	for i, v := range values {
		m[i] = IntElem(v)
	}
	return m
}

func (m MultiSet) toMap() map[string][]Elem {
	result := make(map[string][]Elem)
	for _, e := range m {
		key := e.Key()
		result[key] = append(result[key], e)
	}
	return result
}

// Multiplicity of the element in the multiset, 0 if absent
func (m MultiSet) Multiplicity(e Elem) int {
	count := 0
	key := e.Key()
	for _, o := range m {
		if o.Key() == key {
			count += 1
		}
	}
	return count
}

// Keys returns the distinct keys in sorted order along with their multiplicities
func (m MultiSet) Keys() ([]string, []int) {
	sMap := m.toMap()
	sortedKeys := make([]string, 0, len(sMap))
	for k := range sMap {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)
	multiplicities := make([]int, len(sortedKeys))
	for i, sKey := range sortedKeys {
		multiplicities[i] = len(sMap[sKey])
	}
	return sortedKeys, multiplicities
}

// HasExactly checks the multiplicity of every given element
func (m MultiSet) HasExactly(counts map[Elem]int) bool {
	for e, c := range counts {
		if m.Multiplicity(e) != c {
			return false
		}
	}
	return true
}
