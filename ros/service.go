package ros

// ServiceType is the interface definition of a ROS Service.
// It carries the MD5 sum and name of the service and the request and
// response message types; NewService instantiates a new Service value.
type ServiceType interface {
	MD5Sum() string
	Name() string
	RequestType() MessageType
	ResponseType() MessageType
	NewService() Service
}

// Service holds the request and response messages of one call.
type Service interface {
	ReqMessage() Message
	ResMessage() Message
}
