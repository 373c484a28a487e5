// Package roomscan reads RoomScan LiDAR XML exports into a survey.
//
// The export looks like:
//
//	<project>
//	  <name>Cottage</name>
//	  <floors>
//	    <floor>
//	      <name>Ground</name>
//	      <designs>
//	        <design>
//	          <areas><area id="1" type="room">...</area></areas>
//	          <lines><line id="7" area-id="1">...</line></lines>
//	          <objects><object>...</object></objects>
//	        </design>
//	      </designs>
//	    </floor>
//	  </floors>
//	</project>
//
// Numbers are stored as space separated text. A field that cannot be parsed
// does not fail the read: its name is recorded in the record's Malformed list
// and the resolver reports it against that record.
package roomscan
