package store

import "pathfinder-backend/application/ports"

// RomaniaDataset returns the bundled Romania city map, the default sample
// graph loaded by the dataset endpoints.
func RomaniaDataset() ports.Dataset {
	return ports.Dataset{
		Nodes: map[string][2]float64{
			"Arad":           {46.1866, 21.3123},
			"Bucharest":      {44.4268, 26.1025},
			"Craiova":        {44.3302, 23.7949},
			"Drobeta":        {44.6369, 22.6597},
			"Eforie":         {44.0581, 28.6336},
			"Fagaras":        {45.8416, 24.9731},
			"Giurgiu":        {43.9037, 25.9699},
			"Hirsova":        {44.6893, 27.9457},
			"Iasi":           {47.1585, 27.6014},
			"Lugoj":          {45.6910, 21.9035},
			"Mehadia":        {44.9041, 22.3645},
			"Neamt":          {46.9759, 26.3819},
			"Oradea":         {47.0722, 21.9217},
			"Pitesti":        {44.8565, 24.8692},
			"Rimnicu Vilcea": {45.0997, 24.3693},
			"Sibiu":          {45.7983, 24.1256},
			"Timisoara":      {45.7489, 21.2087},
			"Urziceni":       {44.7181, 26.6453},
			"Vaslui":         {46.6407, 27.7276},
			"Zerind":         {46.6225, 21.5175},
		},
		Edges: []ports.DatasetEdge{
			{Source: "Oradea", Target: "Zerind", Weight: 71},
			{Source: "Oradea", Target: "Sibiu", Weight: 151},
			{Source: "Zerind", Target: "Arad", Weight: 75},
			{Source: "Arad", Target: "Sibiu", Weight: 140},
			{Source: "Arad", Target: "Timisoara", Weight: 118},
			{Source: "Timisoara", Target: "Lugoj", Weight: 111},
			{Source: "Lugoj", Target: "Mehadia", Weight: 70},
			{Source: "Mehadia", Target: "Drobeta", Weight: 75},
			{Source: "Drobeta", Target: "Craiova", Weight: 120},
			{Source: "Craiova", Target: "Rimnicu Vilcea", Weight: 146},
			{Source: "Craiova", Target: "Pitesti", Weight: 138},
			{Source: "Rimnicu Vilcea", Target: "Sibiu", Weight: 80},
			{Source: "Rimnicu Vilcea", Target: "Pitesti", Weight: 97},
			{Source: "Sibiu", Target: "Fagaras", Weight: 99},
			{Source: "Fagaras", Target: "Bucharest", Weight: 211},
			{Source: "Pitesti", Target: "Bucharest", Weight: 101},
			{Source: "Bucharest", Target: "Giurgiu", Weight: 90},
			{Source: "Bucharest", Target: "Urziceni", Weight: 85},
			{Source: "Urziceni", Target: "Hirsova", Weight: 98},
			{Source: "Hirsova", Target: "Eforie", Weight: 86},
			{Source: "Urziceni", Target: "Vaslui", Weight: 142},
			{Source: "Vaslui", Target: "Iasi", Weight: 92},
			{Source: "Iasi", Target: "Neamt", Weight: 87},
		},
	}
}
