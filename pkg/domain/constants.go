package domain

// Attribute names understood by the bundled page parsing helpers.
const (
	// AttrContainer marks the element holding the swappable page content.
	AttrContainer = "data-barba"
	// AttrNamespace carries the namespace of the page held by a container.
	AttrNamespace = "data-barba-namespace"
	// ContainerValue is the expected value of AttrContainer.
	ContainerValue = "container"
)
