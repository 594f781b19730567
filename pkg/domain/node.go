package domain

// Node identifiers for the dialog graph. The set is closed: the executor
// normalizes anything outside it to NodeCustomerService.
const (
	NodeRouter          = "ROUTER"
	NodeProduct         = "PRODUCT"
	NodeTechnical       = "TECHNICAL"
	NodeCustomerService = "CUSTOMER_SERVICE"
	NodeFlightBooking   = "FLIGHT_BOOKING"
	NodeHotelBooking    = "HOTEL_BOOKING"
	NodeCarRental       = "CAR_RENTAL"
	NodeExcursion       = "EXCURSION"
	NodeHumanProxy      = "HUMAN_PROXY"

	// NodeEnd is the terminal marker, reached only from HUMAN_PROXY.
	// Once a conversation points here it is awaiting a human agent.
	NodeEnd = "END"
)

// Nodes lists every responder node in the graph, in department priority
// order (used by the router's deterministic tie-break).
var Nodes = []string{
	NodeRouter,
	NodeProduct,
	NodeTechnical,
	NodeCustomerService,
	NodeFlightBooking,
	NodeHotelBooking,
	NodeCarRental,
	NodeExcursion,
	NodeHumanProxy,
}

// KnownNode reports whether id names a responder node or the terminal
// marker.
func KnownNode(id string) bool {
	if id == NodeEnd {
		return true
	}
	for _, n := range Nodes {
		if n == id {
			return true
		}
	}
	return false
}

// Edges describes the static transition structure of the graph for
// client-side visualization. The executor itself is driven by responder
// decisions, not by this table.
var Edges = [][2]string{
	{NodeRouter, NodeProduct},
	{NodeRouter, NodeTechnical},
	{NodeRouter, NodeCustomerService},
	{NodeRouter, NodeFlightBooking},
	{NodeRouter, NodeHotelBooking},
	{NodeRouter, NodeCarRental},
	{NodeRouter, NodeExcursion},
	{NodeRouter, NodeHumanProxy},
	{NodeProduct, NodeTechnical},
	{NodeProduct, NodeCustomerService},
	{NodeTechnical, NodeProduct},
	{NodeTechnical, NodeCustomerService},
	{NodeCustomerService, NodeTechnical},
	{NodeCustomerService, NodeProduct},
	{NodeCustomerService, NodeHumanProxy},
	{NodeFlightBooking, NodeCustomerService},
	{NodeHotelBooking, NodeCustomerService},
	{NodeCarRental, NodeCustomerService},
	{NodeExcursion, NodeCustomerService},
	{NodeHumanProxy, NodeEnd},
}
